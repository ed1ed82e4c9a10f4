package wishlist

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// Wishlist 用户收藏夹
// BookIDs是无序集合,不含重复元素
type Wishlist struct {
	UserID    uint
	BookIDs   []uint
	UpdatedAt time.Time
}

// Contains 是否已收藏
func (w *Wishlist) Contains(bookID uint) bool {
	for _, id := range w.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

// Repository 收藏夹仓储(文档存储)
type Repository interface {
	// Get 获取收藏夹,不存在时返回空收藏夹
	Get(ctx context.Context, userID uint) (*Wishlist, error)

	// Add 加入收藏(幂等)
	Add(ctx context.Context, userID, bookID uint) error

	// Remove 移除收藏(幂等)
	Remove(ctx context.Context, userID, bookID uint) error

	// RemoveBookFromAll 从所有用户的收藏夹移除某本书,返回受影响的用户
	RemoveBookFromAll(ctx context.Context, bookID uint) ([]uint, error)

	// Delete 删除用户收藏夹
	Delete(ctx context.Context, userID uint) error

	// Save 整体写入收藏夹(补偿恢复使用)
	Save(ctx context.Context, w *Wishlist) error
}

// ErrInvalidBookID 图书ID无效
var ErrInvalidBookID = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的图书ID")
