package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 库存相关方法必须通过ctx参与调用方事务
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查询(忽略不存在的ID,返回顺序不保证)
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// Update 更新可编辑字段(不覆盖Sold/Views/Rating等计数字段)
	Update(ctx context.Context, book *Book) error

	// Delete 下架图书(软删除),历史订单中的快照不受影响
	Delete(ctx context.Context, id uint) error

	// Restore 恢复软删除的图书(补偿操作)
	Restore(ctx context.Context, id uint) error

	// List 条件分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListShelf 首页书架查询
	ListShelf(ctx context.Context, shelf Shelf, limit int) ([]*Book, error)

	// ListRelated 同分类的其他图书
	ListRelated(ctx context.Context, b *Book, limit int) ([]*Book, error)

	// Categories 所有在售图书的分类(去重、排序)
	Categories(ctx context.Context) ([]string, error)

	// IncrViews 浏览次数+1
	IncrViews(ctx context.Context, id uint) error

	// DeductStock 原子扣减库存并累加销量
	// UPDATE books SET stock = stock - qty, sold = sold + qty WHERE id = ? AND stock >= qty
	// 影响行数为0时返回ErrBookNotFound或ErrInsufficientStock,成功返回扣减后的库存
	DeductStock(ctx context.Context, id uint, quantity int) (int, error)

	// RestoreStock 回补库存并扣减销量(订单取消),已下架图书同样回补
	// 返回回补后的库存
	RestoreStock(ctx context.Context, id uint, quantity int) (int, error)

	// UpdateRating 写入评价聚合结果
	UpdateRating(ctx context.Context, id uint, rating float64, numReviews int) error
}

// Sort 列表排序方式
type Sort string

const (
	SortNewest      Sort = ""
	SortPriceAsc    Sort = "price_asc"
	SortPriceDesc   Sort = "price_desc"
	SortTopRated    Sort = "top_rated"
	SortBestSelling Sort = "best_selling"
)

// ParseSort 解析排序参数,未知值按最新排序
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPriceAsc, SortPriceDesc, SortTopRated, SortBestSelling:
		return Sort(s)
	default:
		return SortNewest
	}
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 书名/作者子串,不区分大小写
	Category string
	MinPrice int64 // 0表示不限
	MaxPrice int64 // 0表示不限
	Sort     Sort
	InStock  bool // 仅返回有货图书
}

// Shelf 首页书架
type Shelf int

const (
	ShelfNewArrivals Shelf = iota // 最新上架
	ShelfBestSellers              // 销量最高
	ShelfTopViewed                // 浏览最多
	ShelfHotDeals                 // 折扣率最高(仅originalPrice > price)
)

func (s Shelf) String() string {
	switch s {
	case ShelfNewArrivals:
		return "new_arrivals"
	case ShelfBestSellers:
		return "best_sellers"
	case ShelfTopViewed:
		return "top_viewed"
	case ShelfHotDeals:
		return "hot_deals"
	default:
		return "unknown"
	}
}
