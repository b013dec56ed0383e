package repository

import (
	"context"
	"errors"
	"yatube/internal/model"
	"yatube/pkg/db"

	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{db: db.DB}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// 根据 slug 查找群组
func (r *GroupRepository) FindBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // group not found
		}
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindByID(ctx context.Context, groupID uint) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).First(&group, groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// 所有群组, 按标题排序 (发帖表单的下拉选项)
func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// 删除群组, 帖子的 group_id 由外键置空
func (r *GroupRepository) Delete(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Group{}, groupID).Error
}
