// Package storage 上传文件存储（本地磁盘，/uploads 静态路由对外提供）
package storage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// URLPrefix 上传文件的访问路径前缀
const URLPrefix = "/uploads"

var (
	// ErrUnsupportedImage 不支持的图片格式
	ErrUnsupportedImage = apperrors.New(apperrors.ErrCodeInvalidParams, "仅支持jpg、png、webp、gif格式的图片")
	// ErrFileTooLarge 文件过大
	ErrFileTooLarge = apperrors.New(apperrors.ErrCodeInvalidParams, "文件大小超过限制")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// LocalUploader 本地磁盘上传
// 文件名使用UUID，扩展名由文件内容决定
type LocalUploader struct {
	dir       string
	publicURL string
	maxBytes  int64
	logger    *zap.Logger
}

// NewLocalUploader 创建本地上传组件，目录不存在时创建
func NewLocalUploader(cfg config.ServerConfig, logger *zap.Logger) (*LocalUploader, error) {
	dir := cfg.UploadDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, "创建上传目录失败")
	}

	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 5
	}
	return &LocalUploader{
		dir:       dir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxBytes:  int64(maxMB) << 20,
		logger:    logger,
	}, nil
}

// Dir 上传目录
func (u *LocalUploader) Dir() string {
	return u.dir
}

// SaveImage 保存图片到 {dir}/{category}/{uuid}{ext}，返回访问URL
func (u *LocalUploader) SaveImage(fh *multipart.FileHeader, category string) (string, error) {
	if fh.Size > u.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperrors.Wrap(err, "读取上传文件失败")
	}
	defer src.Close()

	// 按内容嗅探类型，不信任客户端的文件名和Content-Type
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", apperrors.Wrap(err, "读取上传文件失败")
	}
	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrUnsupportedImage
	}

	subdir := filepath.Join(u.dir, category)
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", apperrors.Wrap(err, "创建上传目录失败")
	}
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(subdir, name))
	if err != nil {
		return "", apperrors.Wrap(err, "保存文件失败")
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(src, u.maxBytes)))
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", apperrors.Wrap(err, "保存文件失败")
	}

	url := u.publicURL + URLPrefix + "/" + category + "/" + name
	u.logger.Info("文件已上传", zap.String("url", url), zap.Int64("bytes", written))
	return url, nil
}
