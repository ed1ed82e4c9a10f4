package book

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格以最小货币单位的整数存储(避免浮点数精度问题)
// 2. Stock/Sold由订单流程原子增减,Views由详情页访问自增
// 3. Rating/NumReviews是评价表的聚合结果,由评价用例在事务内重算
type Book struct {
	ID            uint
	Title         string
	Slug          string
	Author        string
	Description   string
	Category      string
	Image         string
	Price         int64 // 售价
	OriginalPrice int64 // 原价(0表示无折扣信息)
	Stock         int   // 库存
	Sold          int   // 累计销量
	Views         int   // 浏览次数
	Rating        float64
	NumReviews    int
	CreatedBy     uint // 上架管理员ID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Attributes 管理员可编辑的字段
type Attributes struct {
	Title         string
	Author        string
	Description   string
	Category      string
	Image         string
	Price         int64
	OriginalPrice int64
	Stock         int
}

// Validate 校验可编辑字段
func (a Attributes) Validate() error {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Author) == "" {
		return ErrInvalidAttributes
	}
	if strings.TrimSpace(a.Category) == "" {
		return ErrInvalidCategory
	}
	if a.Price <= 0 {
		return ErrInvalidPrice
	}
	if a.OriginalPrice < 0 || (a.OriginalPrice > 0 && a.OriginalPrice < a.Price) {
		return ErrInvalidOriginalPrice
	}
	if a.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// NewBook 创建新图书(工厂方法)
func NewBook(attrs Attributes, createdBy uint) (*Book, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	b := &Book{
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.apply(attrs)
	return b, nil
}

// Update 整体替换可编辑字段,返回库存变化量(供库存流水使用)
// Image为空时保留原封面
func (b *Book) Update(attrs Attributes) (stockDelta int, err error) {
	if attrs.Image == "" {
		attrs.Image = b.Image
	}
	if err := attrs.Validate(); err != nil {
		return 0, err
	}

	before := b.Stock
	b.apply(attrs)
	b.UpdatedAt = time.Now()
	return b.Stock - before, nil
}

func (b *Book) apply(attrs Attributes) {
	b.Title = strings.TrimSpace(attrs.Title)
	b.Slug = slug.Make(b.Title)
	b.Author = strings.TrimSpace(attrs.Author)
	b.Description = attrs.Description
	b.Category = strings.TrimSpace(attrs.Category)
	b.Image = attrs.Image
	b.Price = attrs.Price
	b.OriginalPrice = attrs.OriginalPrice
	b.Stock = attrs.Stock
}

// DiscountRate 折扣率 (originalPrice - price) / originalPrice
// 无折扣时返回0
func (b *Book) DiscountRate() float64 {
	if b.OriginalPrice <= b.Price || b.OriginalPrice <= 0 {
		return 0
	}
	return float64(b.OriginalPrice-b.Price) / float64(b.OriginalPrice)
}

// HasStock 库存是否满足购买数量
func (b *Book) HasStock(quantity int) bool {
	return quantity > 0 && b.Stock >= quantity
}

// InStock 是否有货
func (b *Book) InStock() bool {
	return b.Stock > 0
}
