package service

import (
	"context"
	"fmt"
	"time"
	"yatube/internal/events"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/internal/storage"
	"yatube/pkg/logger"

	"go.uber.org/zap"
)

// 写路径: 发帖, 编辑, 评论
type PostService struct {
	postRepo     *repository.PostRepository
	groupRepo    *repository.GroupRepository
	commentRepo  *repository.CommentRepository
	images       storage.ImageStore
	publisher    events.Publisher
	maxImageSize int64
}

func NewPostService(
	postRepo *repository.PostRepository,
	groupRepo *repository.GroupRepository,
	commentRepo *repository.CommentRepository,
	images storage.ImageStore,
	publisher events.Publisher,
	maxImageSize int64,
) *PostService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &PostService{
		postRepo:     postRepo,
		groupRepo:    groupRepo,
		commentRepo:  commentRepo,
		images:       images,
		publisher:    publisher,
		maxImageSize: maxImageSize,
	}
}

// 校验发帖表单, 返回解析后的群组ID
func (s *PostService) validatePost(ctx context.Context, req *PostRequest) (*uint, error) {
	verr := &ValidationError{}
	requireText(verr, "text", &req.Text)

	var groupID *uint
	if req.Group != nil && *req.Group != 0 {
		group, err := s.groupRepo.FindByID(ctx, *req.Group)
		if err != nil {
			return nil, fmt.Errorf("failed to load group: %w", err)
		}
		if group == nil {
			verr.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			groupID = &group.ID
		}
	}

	if req.Image != nil {
		if s.images == nil {
			verr.Add("image", "Image uploads are disabled.")
		} else if err := storage.ValidateImage(req.Image, s.maxImageSize); err != nil {
			verr.Add("image", "Upload a valid image. "+err.Error())
		}
	}

	return groupID, verr.OrNil()
}

// 创建帖子, 作者为当前用户
func (s *PostService) CreatePost(ctx context.Context, authorID uint, req PostRequest) (*model.Post, error) {
	groupID, err := s.validatePost(ctx, &req)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     req.Text,
		AuthorID: authorID,
		GroupID:  groupID,
	}
	if req.Image != nil {
		name, err := s.images.Save(ctx, req.Image)
		if err != nil {
			logger.L.Error("Failed to store post image", zap.Uint("authorID", authorID), zap.Error(err))
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		post.Image = name
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		logger.L.Error("Failed to create post", zap.Uint("authorID", authorID), zap.Error(err))
		if post.Image != "" {
			s.removeImage(ctx, post.Image)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	logger.L.Info("Post created", zap.Uint("postID", post.ID), zap.Uint("authorID", authorID))
	s.publish(ctx, events.Event{
		Type:    events.PostCreated,
		ActorID: authorID,
		Payload: postPayload(post),
	})
	return post, nil
}

// 编辑页所需的帖子, 非作者返回 ErrNotAuthor
func (s *PostService) EditForm(ctx context.Context, userID, postID uint) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.AuthorID != userID {
		logger.L.Debug("Non-author tried to edit post", zap.Uint("postID", postID), zap.Uint("userID", userID))
		return post, ErrNotAuthor
	}
	return post, nil
}

// 编辑帖子. 作者和发布时间保持不变, 新图片替换旧图片
func (s *PostService) EditPost(ctx context.Context, userID, postID uint, req PostRequest) (*model.Post, error) {
	post, err := s.EditForm(ctx, userID, postID)
	if err != nil {
		return post, err
	}

	groupID, err := s.validatePost(ctx, &req)
	if err != nil {
		return post, err
	}

	oldImage := post.Image
	if req.Image != nil {
		name, err := s.images.Save(ctx, req.Image)
		if err != nil {
			logger.L.Error("Failed to store post image", zap.Uint("postID", postID), zap.Error(err))
			return post, fmt.Errorf("failed to store image: %w", err)
		}
		post.Image = name
	}
	post.Text = req.Text
	post.GroupID = groupID

	if err := s.postRepo.UpdateContent(ctx, post); err != nil {
		logger.L.Error("Failed to update post", zap.Uint("postID", postID), zap.Error(err))
		if post.Image != oldImage {
			s.removeImage(ctx, post.Image)
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if oldImage != "" && post.Image != oldImage {
		s.removeImage(ctx, oldImage)
	}

	// 重新加载以带上新的群组
	updated, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}

	logger.L.Info("Post edited", zap.Uint("postID", post.ID), zap.Uint("authorID", userID))
	s.publish(ctx, events.Event{
		Type:    events.PostEdited,
		ActorID: userID,
		Payload: postPayload(updated),
	})
	return updated, nil
}

// 为帖子添加评论
func (s *PostService) CreateComment(ctx context.Context, authorID, postID uint, req CommentRequest) (*model.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if verr := req.validate(); verr.HasErrors() {
		return nil, verr
	}

	comment := &model.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logger.L.Error("Failed to create comment", zap.Uint("postID", postID), zap.Error(err))
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	logger.L.Info("Comment created", zap.Uint("commentID", comment.ID), zap.Uint("postID", postID))
	s.publish(ctx, events.Event{
		Type:    events.CommentCreated,
		ActorID: authorID,
		Payload: map[string]interface{}{
			"comment_id": float64(comment.ID),
			"post_id":    float64(post.ID),
		},
	})
	return comment, nil
}

func (s *PostService) removeImage(ctx context.Context, name string) {
	if err := s.images.Delete(ctx, name); err != nil {
		logger.L.Warn("Failed to remove post image", zap.String("image", name), zap.Error(err))
	}
}

func (s *PostService) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.L.Warn("Failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}

func postPayload(post *model.Post) map[string]interface{} {
	payload := map[string]interface{}{
		"post_id": float64(post.ID),
		"text":    post.String(),
	}
	if post.GroupID != nil {
		payload["group_id"] = float64(*post.GroupID)
	}
	return payload
}
