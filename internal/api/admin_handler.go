package api

import (
	"net/http"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

// 管理员的群组管理
type AdminHandler struct {
	groupService *service.GroupService
}

func NewAdminHandler(groupService *service.GroupService) *AdminHandler {
	return &AdminHandler{groupService: groupService}
}

func (h *AdminHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var req service.GroupRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingErrors(err))
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	if err := h.groupService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
