package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/wishlist"
	"github.com/xiebiao/bookmall/pkg/saga"
)

// DeleteBookUseCase 下架图书
// 图书(MySQL)软删除后从所有收藏夹(MongoDB)移除;
// 收藏夹更新失败时恢复图书,保证两边一致
// 历史订单中的快照不受影响
type DeleteBookUseCase struct {
	bookRepo    book.Repository
	wishlists   wishlist.Repository
	cache       *CatalogCache
	sagaTimeout time.Duration
	logger      *zap.Logger
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	wishlists wishlist.Repository,
	cache *CatalogCache,
	sagaTimeout time.Duration,
	logger *zap.Logger,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo:    bookRepo,
		wishlists:   wishlists,
		cache:       cache,
		sagaTimeout: sagaTimeout,
		logger:      logger,
	}
}

// Execute 执行下架
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if _, err := uc.bookRepo.FindByID(ctx, id); err != nil {
		return err
	}

	var affected []uint
	err := saga.NewSaga("delete_book", uc.sagaTimeout, uc.logger).
		AddStep("soft_delete_book",
			func(ctx context.Context) error {
				return uc.bookRepo.Delete(ctx, id)
			},
			func(ctx context.Context) error {
				return uc.bookRepo.Restore(ctx, id)
			},
		).
		AddStep("remove_from_wishlists",
			func(ctx context.Context) error {
				var err error
				affected, err = uc.wishlists.RemoveBookFromAll(ctx, id)
				return err
			},
			nil,
		).
		Execute(ctx)
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx)
	uc.logger.Info("图书已下架", zap.Uint("book_id", id), zap.Int("wishlists", len(affected)))
	return nil
}
