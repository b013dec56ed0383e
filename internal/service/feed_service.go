package service

import (
	"context"
	"encoding/json"
	"fmt"
	"yatube/internal/cache"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/pkg/logger"
	"yatube/pkg/pagination"

	"go.uber.org/zap"
)

type PostPage = pagination.Page[model.Post]

// 群组页
type GroupFeed struct {
	Group *model.Group
	Page  *PostPage
}

// 作者页
type AuthorFeed struct {
	Author     *model.User
	Page       *PostPage
	PostsCount int64
	// 当前访问者是否已订阅该作者, 匿名或作者本人时为 false
	Following bool
	// 访问者就是作者本人
	IsSelf bool
}

// 帖子详情页
type PostDetail struct {
	Post       *model.Post
	Comments   []model.Comment
	PostsCount int64
}

// 读路径: 各类信息流和帖子详情
type FeedService struct {
	postRepo    *repository.PostRepository
	groupRepo   *repository.GroupRepository
	userRepo    *repository.UserRepository
	followRepo  *repository.FollowRepository
	commentRepo *repository.CommentRepository
	pageCache   cache.Cache
	pageSize    int
}

func NewFeedService(
	postRepo *repository.PostRepository,
	groupRepo *repository.GroupRepository,
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
	commentRepo *repository.CommentRepository,
	pageCache cache.Cache,
	pageSize int,
) *FeedService {
	if pageCache == nil {
		pageCache = cache.Nop{}
	}
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &FeedService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
		commentRepo: commentRepo,
		pageCache:   pageCache,
		pageSize:    pageSize,
	}
}

func globalFeedKey(page int) string {
	return fmt.Sprintf("index:page=%d", page)
}

// 首页: 所有帖子. 结果按页缓存, 写操作不会使缓存失效
func (s *FeedService) GlobalFeed(ctx context.Context, page int) (*PostPage, error) {
	key := globalFeedKey(page)

	if raw, ok, err := s.pageCache.Get(ctx, key); err != nil {
		logger.L.Warn("GlobalFeed: cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var cached PostPage
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		logger.L.Warn("GlobalFeed: dropping undecodable cache entry", zap.String("key", key))
	}

	result, err := s.postRepo.Page(ctx, repository.PostFilter{}, page, s.pageSize)
	if err != nil {
		logger.L.Error("Error fetching global feed", zap.Int("page", page), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve global feed: %w", err)
	}

	if raw, err := json.Marshal(result); err != nil {
		logger.L.Warn("GlobalFeed: failed to encode page for cache", zap.Error(err))
	} else if err := s.pageCache.Set(ctx, key, raw); err != nil {
		logger.L.Warn("GlobalFeed: cache write failed", zap.String("key", key), zap.Error(err))
	}

	return result, nil
}

// 群组帖子
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groupRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	if group == nil {
		return nil, ErrNotFound
	}

	result, err := s.postRepo.Page(ctx, repository.PostFilter{GroupID: &group.ID}, page, s.pageSize)
	if err != nil {
		logger.L.Error("Error fetching group feed", zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve group feed: %w", err)
	}
	return &GroupFeed{Group: group, Page: result}, nil
}

// 作者帖子. viewerID 为 0 表示匿名访问
func (s *FeedService) AuthorFeed(ctx context.Context, viewerID uint, username string, page int) (*AuthorFeed, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return nil, ErrNotFound
	}

	result, err := s.postRepo.Page(ctx, repository.PostFilter{AuthorID: &author.ID}, page, s.pageSize)
	if err != nil {
		logger.L.Error("Error fetching author feed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve author feed: %w", err)
	}

	feed := &AuthorFeed{
		Author:     author,
		Page:       result,
		PostsCount: result.Count,
		IsSelf:     viewerID != 0 && viewerID == author.ID,
	}
	if viewerID != 0 && !feed.IsSelf {
		feed.Following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow: %w", err)
		}
	}
	return feed, nil
}

// 订阅的作者们的帖子
func (s *FeedService) SubscriptionFeed(ctx context.Context, viewerID uint, page int) (*PostPage, error) {
	result, err := s.postRepo.Page(ctx, repository.PostFilter{FollowerID: &viewerID}, page, s.pageSize)
	if err != nil {
		logger.L.Error("Error fetching subscription feed", zap.Uint("viewerID", viewerID), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve subscription feed: %w", err)
	}
	return result, nil
}

// 帖子详情: 帖子, 全部评论, 作者的帖子总数
func (s *FeedService) PostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	comments, err := s.commentRepo.FindByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count author posts: %w", err)
	}

	return &PostDetail{Post: post, Comments: comments, PostsCount: count}, nil
}
