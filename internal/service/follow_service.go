package service

import (
	"context"
	"fmt"
	"time"
	"yatube/internal/events"
	"yatube/internal/repository"
	"yatube/pkg/logger"

	"go.uber.org/zap"
)

// 订阅/取消订阅作者
type FollowService struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	publisher  events.Publisher
}

func NewFollowService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, publisher events.Publisher) *FollowService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &FollowService{
		userRepo:   userRepo,
		followRepo: followRepo,
		publisher:  publisher,
	}
}

// 订阅作者. 订阅自己或重复订阅时不做任何事, 返回值表示是否新建了订阅
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (bool, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return false, ErrNotFound
	}
	if author.ID == userID {
		return false, nil
	}

	created, err := s.followRepo.Create(ctx, userID, author.ID)
	if err != nil {
		logger.L.Error("Failed to follow author", zap.Uint("userID", userID), zap.Uint("authorID", author.ID), zap.Error(err))
		return false, fmt.Errorf("failed to follow: %w", err)
	}
	if created {
		logger.L.Info("Author followed", zap.Uint("userID", userID), zap.Uint("authorID", author.ID))
		s.publish(ctx, events.AuthorFollowed, userID, author.ID)
	}
	return created, nil
}

// 取消订阅, 没有订阅关系时不做任何事
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (bool, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return false, ErrNotFound
	}

	removed, err := s.followRepo.Delete(ctx, userID, author.ID)
	if err != nil {
		logger.L.Error("Failed to unfollow author", zap.Uint("userID", userID), zap.Uint("authorID", author.ID), zap.Error(err))
		return false, fmt.Errorf("failed to unfollow: %w", err)
	}
	if removed {
		logger.L.Info("Author unfollowed", zap.Uint("userID", userID), zap.Uint("authorID", author.ID))
		s.publish(ctx, events.AuthorUnfollowed, userID, author.ID)
	}
	return removed, nil
}

func (s *FollowService) publish(ctx context.Context, eventType string, userID, authorID uint) {
	event := events.Event{
		Type:       eventType,
		ActorID:    userID,
		OccurredAt: time.Now(),
		Payload:    map[string]interface{}{"author_id": float64(authorID)},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.L.Warn("Failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
