package repository

import (
	"context"
	"fmt"
	"testing"
	"yatube/internal/model"
	"yatube/pkg/config"
	"yatube/pkg/db"

	"github.com/stretchr/testify/require"
)

// 每个测试使用一个全新的内存数据库
func setupTestDB(t *testing.T) {
	t.Helper()
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	if err := db.InitDB(config.GlobalConfig.Database); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func createTestUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "testpassword",
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, NewUserRepository().Create(context.Background(), user))
	require.True(t, user.ID > 0)
	return user
}

func createTestGroup(t *testing.T, slug string) *model.Group {
	t.Helper()
	group := &model.Group{
		Title:       "Test group " + slug,
		Slug:        slug,
		Description: "Test description",
	}
	require.NoError(t, NewGroupRepository().Create(context.Background(), group))
	return group
}

func createTestPost(t *testing.T, author *model.User, group *model.Group, text string) *model.Post {
	t.Helper()
	post := &model.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, NewPostRepository().Create(context.Background(), post))
	return post
}
