package repository

import (
	"context"
	"errors"
	"fmt"
	"yatube/internal/model"
	"yatube/pkg/db"
	"yatube/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository() *PostRepository {
	return &PostRepository{db: db.DB}
}

// 帖子列表的筛选条件, 零值表示全部帖子
type PostFilter struct {
	GroupID    *uint
	AuthorID   *uint
	FollowerID *uint // 只保留该用户订阅的作者的帖子
}

func (f PostFilter) apply(tx *gorm.DB) *gorm.DB {
	if f.GroupID != nil {
		tx = tx.Where("posts.group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		tx = tx.Where("posts.author_id = ?", *f.AuthorID)
	}
	if f.FollowerID != nil {
		authors := tx.Session(&gorm.Session{NewDB: true}).
			Model(&model.Follow{}).
			Select("author_id").
			Where("user_id = ?", *f.FollowerID)
		tx = tx.Where("posts.author_id IN (?)", authors)
	}
	return tx
}

// 保存新帖子, pub_date 由数据库层自动填充
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// 根据ID查找帖子, 预加载作者和群组
func (r *PostRepository) FindByID(ctx context.Context, postID uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// 更新正文/群组/图片, 作者和发布时间不可变
func (r *PostRepository) UpdateContent(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// 按发布时间倒序分页, 超出范围的页码夹到最近的有效页
func (r *PostRepository) Page(ctx context.Context, filter PostFilter, number, size int) (*pagination.Page[model.Post], error) {
	var count int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&model.Post{})).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	number = pagination.Clamp(number, pagination.NumPages(count, size))

	var posts []model.Post
	err := filter.apply(r.db.WithContext(ctx).Model(&model.Post{})).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Limit(size).
		Offset(pagination.Offset(number, size)).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return pagination.New(posts, number, size, count), nil
}

// 作者的帖子总数
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&count).Error
	return count, err
}
