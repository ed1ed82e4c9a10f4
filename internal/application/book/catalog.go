package book

import (
	"context"

	"go.uber.org/zap"

	reviewapp "github.com/xiebiao/bookmall/internal/application/review"
	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/review"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
)

// CatalogUseCase 前台目录查询:首页书架、分类、详情、相关推荐
type CatalogUseCase struct {
	bookRepo    book.Repository
	reviewRepo  review.Repository
	stockLogs   stocklog.Repository
	cache       *CatalogCache
	shelfSize   int
	relatedSize int
	logger      *zap.Logger
}

// NewCatalogUseCase 创建目录查询用例
func NewCatalogUseCase(
	bookRepo book.Repository,
	reviewRepo review.Repository,
	stockLogs stocklog.Repository,
	cache *CatalogCache,
	cfg config.CatalogConfig,
	logger *zap.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		bookRepo:    bookRepo,
		reviewRepo:  reviewRepo,
		stockLogs:   stockLogs,
		cache:       cache,
		shelfSize:   max(cfg.ShelfSize, 1),
		relatedSize: max(cfg.RelatedSize, 1),
		logger:      logger,
	}
}

// HomeData 首页四个书架
func (uc *CatalogUseCase) HomeData(ctx context.Context) (*HomeDataResponse, error) {
	return cached(ctx, uc.cache, cacheKeyHomeData, func(ctx context.Context) (*HomeDataResponse, error) {
		shelves := make(map[book.Shelf][]*BookDTO, 4)
		for _, shelf := range []book.Shelf{book.ShelfNewArrivals, book.ShelfBestSellers, book.ShelfTopViewed, book.ShelfHotDeals} {
			books, err := uc.bookRepo.ListShelf(ctx, shelf, uc.shelfSize)
			if err != nil {
				return nil, err
			}
			shelves[shelf] = ToBookDTOs(books)
		}

		return &HomeDataResponse{
			NewArrivals: shelves[book.ShelfNewArrivals],
			BestSellers: shelves[book.ShelfBestSellers],
			TopViewed:   shelves[book.ShelfTopViewed],
			HotDeals:    shelves[book.ShelfHotDeals],
		}, nil
	})
}

// Categories 在售图书的分类
func (uc *CatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, uc.cache, cacheKeyCategories, uc.bookRepo.Categories)
}

// Detail 图书详情,每次访问浏览量+1(不去重)
func (uc *CatalogUseCase) Detail(ctx context.Context, id uint) (*BookDetailDTO, error) {
	if err := uc.bookRepo.IncrViews(ctx, id); err != nil {
		return nil, err
	}

	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.reviewRepo.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BookDetailDTO{
		BookDTO: *toBookDTO(b),
		Reviews: reviewapp.ToReviewDTOs(reviews),
	}, nil
}

// Related 同分类的其他图书
func (uc *CatalogUseCase) Related(ctx context.Context, id uint) ([]*BookDTO, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := uc.bookRepo.ListRelated(ctx, b, uc.relatedSize)
	if err != nil {
		return nil, err
	}
	return ToBookDTOs(related), nil
}

// StockLogs 图书库存流水(管理员)
func (uc *CatalogUseCase) StockLogs(ctx context.Context, id uint, limit int) ([]StockLogDTO, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	logs, err := uc.stockLogs.ListByBook(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	return toStockLogDTOs(logs), nil
}
