package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"
	"yatube/pkg/config"

	"github.com/google/uuid"
)

// 帖子图片保存的子目录
const ImageDir = "posts"

var (
	ErrImageTooLarge   = errors.New("image is too large")
	ErrInvalidImageExt = errors.New("unsupported image type")
	ErrNotAnImage      = errors.New("file is not a valid image")
)

// ImageStore 保存帖子图片, 返回的名称写入 Post.Image
type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// 根据配置创建图片存储
func New(cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.MediaRoot, cfg.MediaURL)
	case "s3":
		return NewS3(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// 扩展名对应 image.DecodeConfig 识别出的格式
var imageFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
}

// 检查大小, 扩展名, 以及内容能否按该格式解码
func ValidateImage(file *multipart.FileHeader, maxSize int64) error {
	if maxSize > 0 && file.Size > maxSize {
		return fmt.Errorf("%w: max size is %s", ErrImageTooLarge, formatSize(maxSize))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	want, ok := imageFormats[ext]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidImageExt, filepath.Ext(file.Filename))
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, format, err := image.DecodeConfig(src)
	if err != nil {
		return ErrNotAnImage
	}
	if format != want {
		return fmt.Errorf("%w: %s content under a %s name", ErrNotAnImage, format, ext)
	}
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// 生成唯一的存储名称: posts/20060102-<uuid>.ext
func imageName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(ImageDir, fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext))
}

func contentType(name string) string {
	if ct, ok := allowedImageExts[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

func joinURL(base, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}
