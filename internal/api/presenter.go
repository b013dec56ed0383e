package api

import (
	"yatube/internal/model"
	"yatube/internal/storage"
	"yatube/pkg/pagination"
)

// 帖子的响应形式, 附带图片的访问地址
type postView struct {
	model.Post
	ImageURL string `json:"image_url,omitempty"`
}

func presentPost(post model.Post, images storage.ImageStore) postView {
	view := postView{Post: post}
	if post.Image != "" && images != nil {
		view.ImageURL = images.URL(post.Image)
	}
	return view
}

func presentPage(page *pagination.Page[model.Post], images storage.ImageStore) *pagination.Page[postView] {
	views := make([]postView, 0, len(page.Items))
	for _, post := range page.Items {
		views = append(views, presentPost(post, images))
	}
	return &pagination.Page[postView]{
		Items:       views,
		Number:      page.Number,
		NumPages:    page.NumPages,
		Count:       page.Count,
		PageSize:    page.PageSize,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	}
}

// 表单回显, 文件字段不回显
type postFormView struct {
	Text  string `json:"text"`
	Group *uint  `json:"group"`
}
