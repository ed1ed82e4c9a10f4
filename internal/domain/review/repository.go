package review

import "context"

// Repository 评价仓储
type Repository interface {
	// Create 新增评价,(user_id, book_id)重复时返回ErrAlreadyReviewed
	Create(ctx context.Context, r *Review) error

	// ListByBook 图书的全部评价(最新在前)
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// Stats 图书评价数量与平均分
	Stats(ctx context.Context, bookID uint) (Stats, error)
}
