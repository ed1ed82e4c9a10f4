package dto

import (
	"mime/multipart"

	appbook "github.com/xiebiao/bookmall/internal/application/book"
)

// BookForm 上架/编辑图书（multipart/form-data）
// validator tag说明:
// - bookcategory: 自定义分类校验(validation包中注册)
// - 原价与售价的关系由结构体级校验完成：原价为0或不低于售价
type BookForm struct {
	Title         string                `form:"title" binding:"required,max=200" example:"Go语言实战"`
	Author        string                `form:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Description   string                `form:"description" binding:"max=5000"`
	Category      string                `form:"category" binding:"required,bookcategory" example:"Tech"`
	Price         int64                 `form:"price" binding:"required,min=1,max=100000000" example:"120000"`
	OriginalPrice int64                 `form:"originalPrice" binding:"min=0,max=100000000" example:"150000"`
	CountInStock  int                   `form:"countInStock" binding:"min=0,max=1000000" example:"20"`
	Image         *multipart.FileHeader `form:"image" swaggerignore:"true"`
}

// ToRequest 转换为应用层请求
func (f *BookForm) ToRequest(imageURL string, adminID uint) appbook.BookRequest {
	return appbook.BookRequest{
		Title:         f.Title,
		Author:        f.Author,
		Description:   f.Description,
		Category:      f.Category,
		Image:         imageURL,
		Price:         f.Price,
		OriginalPrice: f.OriginalPrice,
		Stock:         f.CountInStock,
		AdminID:       adminID,
	}
}

// ListBooksQuery 前台图书列表查询参数
type ListBooksQuery struct {
	Keyword    string `form:"keyword" binding:"omitempty,max=100" example:"go"`
	Category   string `form:"category" binding:"omitempty,max=50" example:"Tech"`
	MinPrice   int64  `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice   int64  `form:"maxPrice" binding:"omitempty,min=0"`
	Sort       string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc top_rated best_selling" example:"price_asc"`
	PageNumber int    `form:"pageNumber" binding:"omitempty,min=1" example:"1"`
}

// AdminListQuery 管理端分页查询参数
type AdminListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
}

// CreateReviewRequest 提交评价
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment" binding:"required,max=2000" example:"内容扎实，值得一读"`
}
