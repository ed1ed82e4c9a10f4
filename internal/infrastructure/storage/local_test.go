package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/infrastructure/config"
)

// pngHeader PNG文件签名
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// fileHeader 构造multipart上传文件
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(config.ServerConfig{UploadDir: dir, PublicURL: "http://localhost:8080/", MaxUploadMB: 1}, zap.NewNop())
	require.NoError(t, err)

	t.Run("保存PNG", func(t *testing.T) {
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 1000)...)
		url, err := u.SaveImage(fileHeader(t, "cover.exe", content), "books")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/books/"))
		assert.True(t, strings.HasSuffix(url, ".png"), "扩展名由内容决定")

		saved, err := os.ReadFile(filepath.Join(dir, "books", filepath.Base(url)))
		require.NoError(t, err)
		assert.Equal(t, content, saved)
	})

	t.Run("拒绝非图片", func(t *testing.T) {
		_, err := u.SaveImage(fileHeader(t, "cover.png", []byte("#!/bin/sh\necho hi\n")), "books")
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("拒绝超大文件", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 1<<20)...)
		_, err := u.SaveImage(fileHeader(t, "big.png", big), "books")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}
