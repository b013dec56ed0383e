package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	group := s.createGroup(t, "test-slug")

	before, err := s.posts.Count(ctx)
	require.NoError(t, err)

	post, err := s.post.CreatePost(ctx, author.ID, PostRequest{
		Text:  "  Test text  ",
		Group: uintPtr(group.ID),
		Image: gifHeader(t, "small.gif"),
	})
	require.NoError(t, err)

	after, err := s.posts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	stored, err := s.posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test text", stored.Text)
	assert.Equal(t, author.ID, stored.AuthorID)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, group.ID, *stored.GroupID)
	assert.NotEmpty(t, stored.Image)
	assert.False(t, stored.PubDate.IsZero())

	_, err = os.Stat(filepath.Join(s.images.Root(), stored.Image))
	assert.NoError(t, err)
}

func TestPostService_CreatePostInvalid(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")

	tests := []struct {
		name      string
		req       PostRequest
		wantField string
	}{
		{"Empty text", PostRequest{Text: "   "}, "text"},
		{"Unknown group", PostRequest{Text: "text", Group: uintPtr(404)}, "group"},
		{"Not an image", PostRequest{Text: "text", Image: gifHeader(t, "notes.txt")}, "image"},
		{"Script named gif", PostRequest{Text: "text", Image: uploadHeader(t, "notanimage.gif", []byte("#!/bin/sh\necho hi\n"))}, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.post.CreatePost(ctx, author.ID, tt.req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}

	count, err := s.posts.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostService_CreatePostZeroGroupMeansNone(t *testing.T) {
	s := setupServices(t, nil)
	author := s.createUser(t, "author")

	post, err := s.post.CreatePost(context.Background(), author.ID, PostRequest{Text: "text", Group: uintPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, post.GroupID)
}

func TestPostService_EditPost(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	group := s.createGroup(t, "test-slug")
	original := s.createPost(t, author, nil, "original")
	stored, err := s.posts.FindByID(ctx, original.ID)
	require.NoError(t, err)

	before, err := s.posts.Count(ctx)
	require.NoError(t, err)

	edited, err := s.post.EditPost(ctx, author.ID, original.ID, PostRequest{Text: "edited", Group: uintPtr(group.ID)})
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)
	require.NotNil(t, edited.Group)
	assert.Equal(t, "test-slug", edited.Group.Slug)
	assert.Equal(t, author.ID, edited.AuthorID)
	assert.True(t, stored.PubDate.Equal(edited.PubDate))

	after, err := s.posts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPostService_EditPostByNonAuthor(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	intruder := s.createUser(t, "intruder")
	post := s.createPost(t, author, nil, "original")

	_, err := s.post.EditForm(ctx, intruder.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotAuthor)

	_, err = s.post.EditPost(ctx, intruder.ID, post.ID, PostRequest{Text: "hacked"})
	assert.ErrorIs(t, err, ErrNotAuthor)

	stored, err := s.posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)

	_, err = s.post.EditPost(ctx, author.ID, 9999, PostRequest{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_EditPostReplacesImage(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")

	post, err := s.post.CreatePost(ctx, author.ID, PostRequest{Text: "with image", Image: gifHeader(t, "one.gif")})
	require.NoError(t, err)
	oldImage := post.Image

	edited, err := s.post.EditPost(ctx, author.ID, post.ID, PostRequest{Text: "with image", Image: gifHeader(t, "two.gif")})
	require.NoError(t, err)
	assert.NotEqual(t, oldImage, edited.Image)

	_, err = os.Stat(filepath.Join(s.images.Root(), oldImage))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(s.images.Root(), edited.Image))
	assert.NoError(t, err)

	// 不上传新图片时保留原图
	kept, err := s.post.EditPost(ctx, author.ID, post.ID, PostRequest{Text: "text only"})
	require.NoError(t, err)
	assert.Equal(t, edited.Image, kept.Image)
}

func TestPostService_CreateComment(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	author := s.createUser(t, "author")
	post := s.createPost(t, author, nil, "post")

	comment, err := s.post.CreateComment(ctx, author.ID, post.ID, CommentRequest{Text: "nice"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)

	_, err = s.post.CreateComment(ctx, author.ID, post.ID, CommentRequest{Text: "  "})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = s.post.CreateComment(ctx, author.ID, 9999, CommentRequest{Text: "lost"})
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := s.comments.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
