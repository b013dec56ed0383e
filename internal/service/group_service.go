package service

import (
	"context"
	"fmt"
	"strings"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/pkg/logger"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// 群组管理, 仅管理员可用
type GroupService struct {
	groupRepo *repository.GroupRepository
}

func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// 由标题生成 slug
func slugify(title string) string {
	s := slug.Make(title)
	if len(s) > groupSlugMaxLength {
		s = strings.Trim(s[:groupSlugMaxLength], "-")
	}
	return s
}

// 创建群组, slug 为空时由标题生成
func (s *GroupService) Create(ctx context.Context, req GroupRequest) (*model.Group, error) {
	if strings.TrimSpace(req.Slug) == "" {
		req.Slug = slugify(req.Title)
	}
	if verr := req.validate(); verr.HasErrors() {
		return nil, verr
	}

	existing, err := s.groupRepo.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil {
		verr := &ValidationError{}
		verr.Add("slug", "Group with this Slug already exists.")
		return nil, verr
	}

	group := &model.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		logger.L.Error("Failed to create group", zap.String("slug", req.Slug), zap.Error(err))
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	logger.L.Info("Group created", zap.Uint("groupID", group.ID), zap.String("slug", group.Slug))
	return group, nil
}

// 删除群组, 其中的帖子保留但不再属于任何群组
func (s *GroupService) Delete(ctx context.Context, groupSlug string) error {
	group, err := s.groupRepo.FindBySlug(ctx, groupSlug)
	if err != nil {
		return fmt.Errorf("failed to load group: %w", err)
	}
	if group == nil {
		return ErrNotFound
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		logger.L.Error("Failed to delete group", zap.String("slug", groupSlug), zap.Error(err))
		return fmt.Errorf("failed to delete group: %w", err)
	}
	logger.L.Info("Group deleted", zap.String("slug", groupSlug))
	return nil
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.groupRepo.List(ctx)
}
