package wishlist

import (
	"context"

	"go.uber.org/zap"

	bookapp "github.com/xiebiao/bookmall/internal/application/book"
	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/wishlist"
)

// WishlistUseCase 收藏夹用例
// 收藏夹存文档库,图书详情从MySQL按ID批量读取;
// 已下架的图书在读取时自然被过滤
type WishlistUseCase struct {
	wishlists wishlist.Repository
	bookRepo  book.Repository
	logger    *zap.Logger
}

// NewWishlistUseCase 创建收藏夹用例
func NewWishlistUseCase(wishlists wishlist.Repository, bookRepo book.Repository, logger *zap.Logger) *WishlistUseCase {
	return &WishlistUseCase{
		wishlists: wishlists,
		bookRepo:  bookRepo,
		logger:    logger,
	}
}

// Add 加入收藏,重复加入无副作用
func (uc *WishlistUseCase) Add(ctx context.Context, userID, bookID uint) error {
	if bookID == 0 {
		return wishlist.ErrInvalidBookID
	}
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return err
	}

	if err := uc.wishlists.Add(ctx, userID, bookID); err != nil {
		return err
	}
	uc.logger.Debug("加入收藏", zap.Uint("user_id", userID), zap.Uint("book_id", bookID))
	return nil
}

// Remove 移除收藏,不在收藏夹中也视为成功
func (uc *WishlistUseCase) Remove(ctx context.Context, userID, bookID uint) error {
	if bookID == 0 {
		return wishlist.ErrInvalidBookID
	}
	return uc.wishlists.Remove(ctx, userID, bookID)
}

// List 我的收藏
func (uc *WishlistUseCase) List(ctx context.Context, userID uint) ([]*bookapp.BookDTO, error) {
	w, err := uc.wishlists.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(w.BookIDs) == 0 {
		return []*bookapp.BookDTO{}, nil
	}

	books, err := uc.bookRepo.FindByIDs(ctx, w.BookIDs)
	if err != nil {
		return nil, err
	}
	return bookapp.ToBookDTOs(books), nil
}
