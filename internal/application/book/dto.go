package book

import (
	"time"

	reviewapp "github.com/xiebiao/bookmall/internal/application/review"
	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
)

// BookDTO 图书
type BookDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"originalPrice"`
	DiscountRate  float64   `json:"discountRate"`
	Stock         int       `json:"stock"`
	Sold          int       `json:"sold"`
	Views         int       `json:"views"`
	Rating        float64   `json:"rating"`
	NumReviews    int       `json:"numReviews"`
	CreatedBy     uint      `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookDetailDTO 图书详情(含评价,最新在前)
type BookDetailDTO struct {
	BookDTO
	Reviews []reviewapp.ReviewDTO `json:"reviews"`
}

// ListBooksResponse 图书分页列表
type ListBooksResponse struct {
	Books      []*BookDTO `json:"books"`
	Page       int        `json:"page"`
	Pages      int        `json:"pages"`
	TotalBooks int64      `json:"totalBooks"`
}

// HomeDataResponse 首页书架
type HomeDataResponse struct {
	NewArrivals []*BookDTO `json:"newArrivals"`
	BestSellers []*BookDTO `json:"bestSellers"`
	TopViewed   []*BookDTO `json:"topViewed"`
	HotDeals    []*BookDTO `json:"hotDeals"`
}

// StockLogDTO 库存流水
type StockLogDTO struct {
	ID          uint      `json:"id"`
	ChangeType  string    `json:"changeType"`
	Quantity    int       `json:"quantity"`
	BeforeStock int       `json:"beforeStock"`
	AfterStock  int       `json:"afterStock"`
	OrderID     uint      `json:"orderId,omitempty"`
	OperatorID  uint      `json:"operatorId,omitempty"`
	Remark      string    `json:"remark,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toBookDTO(b *book.Book) *BookDTO {
	return &BookDTO{
		ID:            b.ID,
		Title:         b.Title,
		Slug:          b.Slug,
		Author:        b.Author,
		Description:   b.Description,
		Category:      b.Category,
		Image:         b.Image,
		Price:         b.Price,
		OriginalPrice: b.OriginalPrice,
		DiscountRate:  b.DiscountRate(),
		Stock:         b.Stock,
		Sold:          b.Sold,
		Views:         b.Views,
		Rating:        b.Rating,
		NumReviews:    b.NumReviews,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBookDTOs 转换图书列表
func ToBookDTOs(books []*book.Book) []*BookDTO {
	out := make([]*BookDTO, len(books))
	for i, b := range books {
		out[i] = toBookDTO(b)
	}
	return out
}

func toStockLogDTOs(logs []*stocklog.StockLog) []StockLogDTO {
	out := make([]StockLogDTO, len(logs))
	for i, l := range logs {
		out[i] = StockLogDTO{
			ID:          l.ID,
			ChangeType:  string(l.ChangeType),
			Quantity:    l.Quantity,
			BeforeStock: l.BeforeStock,
			AfterStock:  l.AfterStock,
			OrderID:     l.OrderID,
			OperatorID:  l.OperatorID,
			Remark:      l.Remark,
			CreatedAt:   l.CreatedAt,
		}
	}
	return out
}
