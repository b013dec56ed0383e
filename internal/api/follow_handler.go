package api

import (
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	if _, err := h.followService.Follow(c.Request.Context(), userID, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, "/")
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	if _, err := h.followService.Unfollow(c.Request.Context(), userID, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, "/")
}
