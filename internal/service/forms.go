package service

import (
	"mime/multipart"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	msgRequired = "This field is required."

	groupTitleMaxLength = 200
	groupSlugMaxLength  = 60
	usernameMaxLength   = 150
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// 发帖/编辑表单
type PostRequest struct {
	Text  string                `form:"text" json:"text" binding:"required"`
	Group *uint                 `form:"group" json:"group"`
	Image *multipart.FileHeader `form:"image" json:"-"`
}

// 评论表单
type CommentRequest struct {
	Text string `form:"text" json:"text" binding:"required"`
}

// 管理员创建群组, slug 为空时由标题生成
type GroupRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Slug        string `form:"slug" json:"slug" binding:"max=60"`
	Description string `form:"description" json:"description" binding:"required"`
}

func requireText(verr *ValidationError, field string, value *string) {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		verr.Add(field, msgRequired)
	}
}

func (r *CommentRequest) validate() *ValidationError {
	verr := &ValidationError{}
	requireText(verr, "text", &r.Text)
	return verr
}

func (r *GroupRequest) validate() *ValidationError {
	verr := &ValidationError{}
	requireText(verr, "title", &r.Title)
	requireText(verr, "description", &r.Description)
	r.Slug = strings.TrimSpace(r.Slug)

	if utf8.RuneCountInString(r.Title) > groupTitleMaxLength {
		verr.Add("title", "Ensure this value has at most 200 characters.")
	}
	switch {
	case r.Slug == "":
		verr.Add("slug", msgRequired)
	case len(r.Slug) > groupSlugMaxLength:
		verr.Add("slug", "Ensure this value has at most 60 characters.")
	case !slugPattern.MatchString(r.Slug):
		verr.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	return verr
}
