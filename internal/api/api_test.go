package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"yatube/internal/cache"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/pkg/config"
	"yatube/pkg/db"
	"yatube/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router   *gin.Engine
	users    *repository.UserRepository
	groups   *repository.GroupRepository
	posts    *repository.PostRepository
	comments *repository.CommentRepository
	follows  *repository.FollowRepository
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GlobalConfig
	if err := db.InitDB(cfg.Database); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	images, err := storage.NewLocal(t.TempDir(), cfg.Storage.MediaURL)
	require.NoError(t, err)

	app := &testApp{
		users:    repository.NewUserRepository(),
		groups:   repository.NewGroupRepository(),
		posts:    repository.NewPostRepository(),
		comments: repository.NewCommentRepository(),
		follows:  repository.NewFollowRepository(),
	}
	app.router = NewRouter(Dependencies{
		Config:   cfg,
		UserRepo: app.users,
		Auth:     service.NewAuthService(app.users),
		Feed:     service.NewFeedService(app.posts, app.groups, app.users, app.follows, app.comments, cache.Nop{}, cfg.Pagination.PageSize),
		Posts:    service.NewPostService(app.posts, app.groups, app.comments, images, nil, cfg.Storage.MaxImageSize),
		Follows:  service.NewFollowService(app.users, app.follows, nil),
		Groups:   service.NewGroupService(app.groups),
		Images:   images,
	})
	return app
}

// 创建用户并返回其 token
func (a *testApp) createUser(t *testing.T, username string, staff bool) (*model.User, string) {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "password123",
		Email:    username + "@example.com",
		IsStaff:  staff,
	}
	require.NoError(t, a.users.Create(context.Background(), user))
	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func (a *testApp) createGroup(t *testing.T, slug string) *model.Group {
	t.Helper()
	group := &model.Group{Title: "Test group", Slug: slug, Description: "Test description"}
	require.NoError(t, a.groups.Create(context.Background(), group))
	return group
}

func (a *testApp) createPost(t *testing.T, author *model.User, group *model.Group, text string) *model.Post {
	t.Helper()
	post := &model.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, a.posts.Create(context.Background(), post))
	return post
}

func (a *testApp) do(t *testing.T, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doMultipart(t *testing.T, target, token string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, target, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type pageBody struct {
	PageObj struct {
		Items []struct {
			ID       uint   `json:"id"`
			Text     string `json:"text"`
			ImageURL string `json:"image_url"`
			Author   struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"object_list"`
		Number   int   `json:"number"`
		NumPages int   `json:"num_pages"`
		Count    int64 `json:"count"`
	} `json:"page_obj"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/posts/%d/%s", id, suffix)
}
