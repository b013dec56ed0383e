package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// 标识符(slug / 用户名 / 帖子ID)无法解析
	ErrNotFound = errors.New("not found")
	// 非作者尝试编辑帖子
	ErrNotAuthor = errors.New("only the author can edit this post")
)

// ValidationError 按字段收集表单错误, 不会写入任何数据
type ValidationError struct {
	Fields map[string][]string `json:"errors"`
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// 没有错误时返回 nil, 避免把空指针包进 error 接口
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
