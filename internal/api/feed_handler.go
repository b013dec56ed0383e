package api

import (
	"net/http"
	"yatube/internal/service"
	"yatube/internal/storage"

	"github.com/gin-gonic/gin"
)

// 各类信息流和帖子详情
type FeedHandler struct {
	feedService *service.FeedService
	images      storage.ImageStore
}

func NewFeedHandler(feedService *service.FeedService, images storage.ImageStore) *FeedHandler {
	return &FeedHandler{feedService: feedService, images: images}
}

func (h *FeedHandler) Index(c *gin.Context) {
	page, err := h.feedService.GlobalFeed(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_obj": presentPage(page, h.images)})
}

func (h *FeedHandler) GroupPosts(c *gin.Context) {
	feed, err := h.feedService.GroupFeed(c.Request.Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"group":    feed.Group,
		"page_obj": presentPage(feed.Page, h.images),
	})
}

func (h *FeedHandler) Profile(c *gin.Context) {
	viewerID, _ := getUserIDFromContext(c)
	feed, err := h.feedService.AuthorFeed(c.Request.Context(), viewerID, c.Param("username"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"author":      feed.Author,
		"full_name":   feed.Author.FullName(),
		"page_obj":    presentPage(feed.Page, h.images),
		"posts_count": feed.PostsCount,
		"following":   feed.Following,
		"is_self":     feed.IsSelf,
	})
}

func (h *FeedHandler) PostDetail(c *gin.Context) {
	postID, ok := getPostIDFromParam(c)
	if !ok {
		return
	}
	detail, err := h.feedService.PostDetail(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":        presentPost(*detail.Post, h.images),
		"title":       detail.Post.String(),
		"comments":    detail.Comments,
		"posts_count": detail.PostsCount,
		"form":        service.CommentRequest{},
	})
}

// 订阅的作者们的帖子
func (h *FeedHandler) FollowIndex(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	page, err := h.feedService.SubscriptionFeed(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_obj": presentPage(page, h.images)})
}
