package api

import (
	"errors"
	"net/http"
	"yatube/internal/middleware"
	"yatube/internal/service"
	"yatube/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 发帖, 编辑, 评论
type PostHandler struct {
	postService  *service.PostService
	groupService *service.GroupService
}

func NewPostHandler(postService *service.PostService, groupService *service.GroupService) *PostHandler {
	return &PostHandler{postService: postService, groupService: groupService}
}

// 表单页: 回显的输入, 可选群组, 错误
func (h *PostHandler) renderForm(c *gin.Context, status int, form postFormView, isEdit bool, verr *service.ValidationError) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{
		"form":    form,
		"groups":  groups,
		"is_edit": isEdit,
	}
	if verr.HasErrors() {
		body["errors"] = verr.Fields
	}
	c.JSON(status, body)
}

func (h *PostHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, postFormView{}, false, nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req service.PostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusBadRequest, postFormView{Text: req.Text, Group: req.Group}, false, bindingErrors(err))
		return
	}

	_, err := h.postService.CreatePost(c.Request.Context(), user.ID, req)
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.renderForm(c, http.StatusBadRequest, postFormView{Text: req.Text, Group: req.Group}, false, verr)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, profileURL(user.Username))
}

func (h *PostHandler) EditForm(c *gin.Context) {
	postID, ok := getPostIDFromParam(c)
	if !ok {
		return
	}
	userID, _ := getUserIDFromContext(c)

	post, err := h.postService.EditForm(c.Request.Context(), userID, postID)
	if errors.Is(err, service.ErrNotAuthor) {
		redirect(c, postURL(postID))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, postFormView{Text: post.Text, Group: post.GroupID}, true, nil)
}

func (h *PostHandler) Edit(c *gin.Context) {
	postID, ok := getPostIDFromParam(c)
	if !ok {
		return
	}
	userID, _ := getUserIDFromContext(c)

	var req service.PostRequest
	if err := c.ShouldBind(&req); err != nil {
		// 非作者不应看到表单错误
		if _, err := h.postService.EditForm(c.Request.Context(), userID, postID); err != nil {
			h.editFailed(c, postID, err)
			return
		}
		h.renderForm(c, http.StatusBadRequest, postFormView{Text: req.Text, Group: req.Group}, true, bindingErrors(err))
		return
	}

	_, err := h.postService.EditPost(c.Request.Context(), userID, postID, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(c, http.StatusBadRequest, postFormView{Text: req.Text, Group: req.Group}, true, verr)
			return
		}
		h.editFailed(c, postID, err)
		return
	}
	redirect(c, postURL(postID))
}

func (h *PostHandler) editFailed(c *gin.Context, postID uint, err error) {
	if errors.Is(err, service.ErrNotAuthor) {
		redirect(c, postURL(postID))
		return
	}
	respondError(c, err)
}

// 评论无论成功与否都回到帖子详情页
func (h *PostHandler) AddComment(c *gin.Context) {
	postID, ok := getPostIDFromParam(c)
	if !ok {
		return
	}
	userID, _ := getUserIDFromContext(c)

	var req service.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.L.Debug("Rejected comment", zap.Uint("postID", postID), zap.Error(err))
		req.Text = ""
	}

	_, err := h.postService.CreateComment(c.Request.Context(), userID, postID, req)
	var verr *service.ValidationError
	if err != nil && !errors.As(err, &verr) {
		respondError(c, err)
		return
	}
	redirect(c, postURL(postID))
}
