package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/shared"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
)

// PublishBookUseCase 图书上架用例
// 1. 应用层负责用例编排,字段校验由领域实体完成
// 2. 初始库存记一条RESTOCK流水,与图书在同一事务写入
type PublishBookUseCase struct {
	bookService book.Service
	stockLogs   stocklog.Repository
	txManager   shared.TxManager
	cache       *CatalogCache
	logger      *zap.Logger
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(
	bookService book.Service,
	stockLogs stocklog.Repository,
	txManager shared.TxManager,
	cache *CatalogCache,
	logger *zap.Logger,
) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
		stockLogs:   stockLogs,
		txManager:   txManager,
		cache:       cache,
		logger:      logger,
	}
}

// BookRequest 上架/编辑请求
type BookRequest struct {
	Title         string
	Author        string
	Description   string
	Category      string
	Image         string // 已上传的封面URL,编辑时为空表示保留原封面
	Price         int64
	OriginalPrice int64
	Stock         int
	AdminID       uint // 从认证中间件获取
}

func (r BookRequest) attributes() book.Attributes {
	return book.Attributes{
		Title:         r.Title,
		Author:        r.Author,
		Description:   r.Description,
		Category:      r.Category,
		Image:         r.Image,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Stock:         r.Stock,
	}
}

// Execute 执行上架
func (uc *PublishBookUseCase) Execute(ctx context.Context, req BookRequest) (*BookDTO, error) {
	var created *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookService.PublishBook(txCtx, req.attributes(), req.AdminID)
		if err != nil {
			return err
		}
		created = b

		if l := stocklog.NewAdminLog(b.ID, 0, b.Stock, req.AdminID); l != nil {
			l.Remark = "上架"
			return uc.stockLogs.BatchCreate(txCtx, []*stocklog.StockLog{l})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	uc.logger.Info("图书上架",
		zap.Uint("book_id", created.ID),
		zap.String("title", created.Title),
		zap.Uint("admin_id", req.AdminID),
	)
	return toBookDTO(created), nil
}

// UpdateBookUseCase 编辑图书
// 库存变化记RESTOCK/ADJUST流水
type UpdateBookUseCase struct {
	bookService book.Service
	stockLogs   stocklog.Repository
	txManager   shared.TxManager
	cache       *CatalogCache
	logger      *zap.Logger
}

// NewUpdateBookUseCase 创建编辑用例
func NewUpdateBookUseCase(
	bookService book.Service,
	stockLogs stocklog.Repository,
	txManager shared.TxManager,
	cache *CatalogCache,
	logger *zap.Logger,
) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		stockLogs:   stockLogs,
		txManager:   txManager,
		cache:       cache,
		logger:      logger,
	}
}

// Execute 执行编辑
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req BookRequest) (*BookDTO, error) {
	var updated *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, delta, err := uc.bookService.UpdateBook(txCtx, id, req.attributes())
		if err != nil {
			return err
		}
		updated = b

		if l := stocklog.NewAdminLog(b.ID, b.Stock-delta, b.Stock, req.AdminID); l != nil {
			return uc.stockLogs.BatchCreate(txCtx, []*stocklog.StockLog{l})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	uc.logger.Info("图书已更新", zap.Uint("book_id", id), zap.Uint("admin_id", req.AdminID))
	return toBookDTO(updated), nil
}
