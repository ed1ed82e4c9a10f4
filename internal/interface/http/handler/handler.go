// Package handler HTTP处理器
// 只负责参数绑定、调用应用层用例和输出响应，业务规则都在应用层和领域层
package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookmall/internal/interface/http/validation"
	"github.com/xiebiao/bookmall/pkg/response"
)

// ImageUploader 图片上传
type ImageUploader interface {
	SaveImage(fh *multipart.FileHeader, category string) (string, error)
}

// 上传子目录
const (
	uploadCategoryBooks   = "books"
	uploadCategoryAvatars = "avatars"
)

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validation.Message(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validation.Message(err))
		return false
	}
	return true
}

// pathID 解析路径中的数字ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: 无效的ID")
		return 0, false
	}
	return uint(id), true
}
