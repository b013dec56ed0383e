package service

import (
	"context"
	"testing"
	"time"
	"yatube/internal/cache"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_GlobalFeedPagination(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	s.createPosts(t, author, nil, 13)

	tests := []struct {
		name       string
		page       int
		wantNumber int
		wantLen    int
	}{
		{"First page", 1, 1, 10},
		{"Second page", 2, 2, 3},
		{"Page past the end", 99, 2, 3},
		{"Page below one", 0, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.feed.GlobalFeed(ctx, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Len(t, page.Items, tt.wantLen)
			assert.Equal(t, 2, page.NumPages)
			assert.EqualValues(t, 13, page.Count)
		})
	}
}

func TestFeedService_GlobalFeedNewestFirst(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	first := s.createPost(t, author, nil, "first")
	second := s.createPost(t, author, nil, "second")

	page, err := s.feed.GlobalFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
	assert.Equal(t, "author", page.Items[0].Author.Username)
}

func TestFeedService_GlobalFeedEmpty(t *testing.T) {
	s := setupServices(t, nil)

	page, err := s.feed.GlobalFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.NumPages)
	assert.False(t, page.HasNext)
}

func TestFeedService_GlobalFeedIsCached(t *testing.T) {
	s := setupServices(t, cache.NewMemory(16, testCacheTTL))
	ctx := context.Background()
	author := s.createUser(t, "author")
	s.createPost(t, author, nil, "cached post")

	before, err := s.feed.GlobalFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before.Items, 1)

	_, err = s.post.CreatePost(ctx, author.ID, PostRequest{Text: "fresh post"})
	require.NoError(t, err)

	// 缓存未过期, 新帖子不可见
	stale, err := s.feed.GlobalFeed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stale.Items, 1)
	assert.Equal(t, "cached post", stale.Items[0].Text)

	uncached := NewFeedService(s.posts, s.groups, s.users, s.follows, s.comments, cache.Nop{}, 10)
	fresh, err := uncached.GlobalFeed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, fresh.Items, 2)
}

func TestFeedService_GlobalFeedCacheUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := setupServices(t, cache.NewRedisWithClient(client, "test:", testCacheTTL))
	author := s.createUser(t, "author")
	s.createPost(t, author, nil, "still served")

	// 缓存不可用时直接读库
	page, err := s.feed.GlobalFeed(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "still served", page.Items[0].Text)
}

func TestFeedService_GroupFeed(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	group := s.createGroup(t, "test-slug")
	other := s.createGroup(t, "other")
	post := s.createPost(t, author, group, "in group")
	s.createPost(t, author, other, "in other group")
	s.createPost(t, author, nil, "no group")

	feed, err := s.feed.GroupFeed(ctx, "test-slug", 1)
	require.NoError(t, err)
	assert.Equal(t, group.ID, feed.Group.ID)
	require.Len(t, feed.Page.Items, 1)
	assert.Equal(t, post.ID, feed.Page.Items[0].ID)

	otherFeed, err := s.feed.GroupFeed(ctx, "other", 1)
	require.NoError(t, err)
	require.Len(t, otherFeed.Page.Items, 1)
	assert.NotEqual(t, post.ID, otherFeed.Page.Items[0].ID)

	_, err = s.feed.GroupFeed(ctx, "not-exist", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedService_AuthorFeed(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	reader := s.createUser(t, "reader")
	s.createPosts(t, author, nil, 12)
	s.createPost(t, reader, nil, "reader post")

	feed, err := s.feed.AuthorFeed(ctx, 0, "author", 2)
	require.NoError(t, err)
	assert.Equal(t, author.ID, feed.Author.ID)
	assert.EqualValues(t, 12, feed.PostsCount)
	assert.Len(t, feed.Page.Items, 2)
	assert.False(t, feed.Following)
	assert.False(t, feed.IsSelf)

	_, err = s.follows.Create(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	feed, err = s.feed.AuthorFeed(ctx, reader.ID, "author", 1)
	require.NoError(t, err)
	assert.True(t, feed.Following)

	self, err := s.feed.AuthorFeed(ctx, author.ID, "author", 1)
	require.NoError(t, err)
	assert.True(t, self.IsSelf)
	assert.False(t, self.Following)

	_, err = s.feed.AuthorFeed(ctx, 0, "ghost", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedService_SubscriptionFeed(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	a := s.createUser(t, "user-a")
	b := s.createUser(t, "user-b")
	c := s.createUser(t, "user-c")

	_, err := s.follow.Follow(ctx, a.ID, "user-b")
	require.NoError(t, err)

	post, err := s.post.CreatePost(ctx, b.ID, PostRequest{Text: "from b"})
	require.NoError(t, err)

	feedA, err := s.feed.SubscriptionFeed(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, feedA.Items, 1)
	assert.Equal(t, post.ID, feedA.Items[0].ID)

	feedC, err := s.feed.SubscriptionFeed(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, feedC.Items)
}

func TestFeedService_PostDetail(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	reader := s.createUser(t, "reader")
	post := s.createPost(t, author, nil, "detail post")
	s.createPost(t, author, nil, "another")

	_, err := s.post.CreateComment(ctx, reader.ID, post.ID, CommentRequest{Text: "first"})
	require.NoError(t, err)
	_, err = s.post.CreateComment(ctx, author.ID, post.ID, CommentRequest{Text: "second"})
	require.NoError(t, err)

	detail, err := s.feed.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.EqualValues(t, 2, detail.PostsCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "first", detail.Comments[0].Text)
	assert.Equal(t, "reader", detail.Comments[0].Author.Username)

	_, err = s.feed.PostDetail(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
