package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"yatube/pkg/logger"

	"go.uber.org/zap"
)

// Local 把图片保存到 media 根目录下
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		root = "media"
	}
	// 确保目录存在
	if err := os.MkdirAll(filepath.Join(root, ImageDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{root: root, baseURL: baseURL}, nil
}

func (s *Local) Root() string {
	return s.root
}

func (s *Local) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := imageName(file.Filename)
	dst, err := os.Create(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	logger.L.Info("Image stored successfully",
		zap.String("name", name),
		zap.String("original", file.Filename),
		zap.Int64("size", file.Size))
	return name, nil
}

func (s *Local) Delete(_ context.Context, name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Local) URL(name string) string {
	return joinURL(s.baseURL, name)
}
