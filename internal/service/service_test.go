package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"testing"
	"time"
	"yatube/internal/cache"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/internal/storage"
	"yatube/pkg/config"
	"yatube/pkg/db"

	"github.com/stretchr/testify/require"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

type testServices struct {
	users    *repository.UserRepository
	groups   *repository.GroupRepository
	posts    *repository.PostRepository
	comments *repository.CommentRepository
	follows  *repository.FollowRepository
	images   *storage.Local

	auth   *AuthService
	feed   *FeedService
	post   *PostService
	follow *FollowService
	group  *GroupService
}

func setupTestDB(t *testing.T) {
	t.Helper()
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	if err := db.InitDB(config.GlobalConfig.Database); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

// 每个测试一个新的内存库, 图片写到临时目录
func setupServices(t *testing.T, pageCache cache.Cache) *testServices {
	t.Helper()
	setupTestDB(t)

	images, err := storage.NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)

	s := &testServices{
		users:    repository.NewUserRepository(),
		groups:   repository.NewGroupRepository(),
		posts:    repository.NewPostRepository(),
		comments: repository.NewCommentRepository(),
		follows:  repository.NewFollowRepository(),
		images:   images,
	}
	s.auth = NewAuthService(s.users)
	s.feed = NewFeedService(s.posts, s.groups, s.users, s.follows, s.comments, pageCache, config.GlobalConfig.Pagination.PageSize)
	s.post = NewPostService(s.posts, s.groups, s.comments, images, nil, config.GlobalConfig.Storage.MaxImageSize)
	s.follow = NewFollowService(s.users, s.follows, nil)
	s.group = NewGroupService(s.groups)
	return s
}

func (s *testServices) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "testpassword",
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func (s *testServices) createGroup(t *testing.T, slug string) *model.Group {
	t.Helper()
	group := &model.Group{Title: "Test group", Slug: slug, Description: "Test description"}
	require.NoError(t, s.groups.Create(context.Background(), group))
	return group
}

func (s *testServices) createPost(t *testing.T, author *model.User, group *model.Group, text string) *model.Post {
	t.Helper()
	post := &model.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, s.posts.Create(context.Background(), post))
	return post
}

func (s *testServices) createPosts(t *testing.T, author *model.User, group *model.Group, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		s.createPost(t, author, group, fmt.Sprintf("Test post %d", i))
	}
}

func gifHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	return uploadHeader(t, filename, smallGIF)
}

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func uintPtr(v uint) *uint { return &v }

// 首页缓存测试用的 TTL
const testCacheTTL = 20 * time.Second
