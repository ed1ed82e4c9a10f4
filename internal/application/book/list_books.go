package book

import (
	"context"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/pkg/response"
)

// 管理员列表每页数量上限
const maxAdminPageSize = 100

// ListBooksUseCase 图书列表查询用例
// 1. 支持关键词、分类、价格区间过滤和排序
// 2. 前台列表使用固定的每页数量
type ListBooksUseCase struct {
	bookService book.Service
	pageSize    int
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, pageSize int) *ListBooksUseCase {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &ListBooksUseCase{
		bookService: bookService,
		pageSize:    pageSize,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	Keyword  string // 书名或作者,不区分大小写
	Category string
	MinPrice int64
	MaxPrice int64
	Sort     string // price_asc | price_desc | top_rated | best_selling,默认最新
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值
	if req.Page < 1 {
		req.Page = 1
	}
	if req.MinPrice < 0 {
		req.MinPrice = 0
	}
	if req.MaxPrice < 0 {
		req.MaxPrice = 0
	}

	// 2. 查询
	params := book.ListParams{
		Page:     req.Page,
		PageSize: uc.pageSize,
		Keyword:  req.Keyword,
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Sort:     book.ParseSort(req.Sort),
	}
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 3. 组装响应
	return &ListBooksResponse{
		Books:      ToBookDTOs(books),
		Page:       req.Page,
		Pages:      response.TotalPages(total, uc.pageSize),
		TotalBooks: total,
	}, nil
}

// AdminList 管理员图书列表(含缺货图书,可指定每页数量)
func (uc *ListBooksUseCase) AdminList(ctx context.Context, page, pageSize int, keyword string) (*ListBooksResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = uc.pageSize
	}
	if pageSize > maxAdminPageSize {
		pageSize = maxAdminPageSize
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     page,
		PageSize: pageSize,
		Keyword:  keyword,
	})
	if err != nil {
		return nil, err
	}
	return &ListBooksResponse{
		Books:      ToBookDTOs(books),
		Page:       page,
		Pages:      response.TotalPages(total, pageSize),
		TotalBooks: total,
	}, nil
}
