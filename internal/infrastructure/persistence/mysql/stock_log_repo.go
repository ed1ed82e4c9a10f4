package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// stockLogRepository 库存流水仓储
type stockLogRepository struct {
	db *gorm.DB
}

// NewStockLogRepository 创建库存流水仓储
func NewStockLogRepository(db *gorm.DB) stocklog.Repository {
	return &stockLogRepository{db: db}
}

// BatchCreate 批量写入(与库存变更处于同一事务)
func (r *stockLogRepository) BatchCreate(ctx context.Context, logs []*stocklog.StockLog) error {
	if len(logs) == 0 {
		return nil
	}

	models := make([]StockLogModel, len(logs))
	for i, l := range logs {
		models[i] = StockLogModel{
			BookID:      l.BookID,
			ChangeType:  string(l.ChangeType),
			Quantity:    l.Quantity,
			BeforeStock: l.BeforeStock,
			AfterStock:  l.AfterStock,
			OrderID:     l.OrderID,
			OperatorID:  l.OperatorID,
			Remark:      l.Remark,
		}
	}

	if err := getDB(ctx, r.db).CreateInBatches(models, 100).Error; err != nil {
		return apperrors.Wrap(err, "写入库存流水失败")
	}
	for i := range logs {
		logs[i].ID = models[i].ID
		logs[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

// ListByBook 图书库存流水
func (r *stockLogRepository) ListByBook(ctx context.Context, bookID uint, limit int) ([]*stocklog.StockLog, error) {
	var models []StockLogModel
	err := getDB(ctx, r.db).
		Where("book_id = ?", bookID).
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询库存流水失败")
	}

	logs := make([]*stocklog.StockLog, len(models))
	for i, m := range models {
		logs[i] = &stocklog.StockLog{
			ID:          m.ID,
			BookID:      m.BookID,
			ChangeType:  stocklog.ChangeType(m.ChangeType),
			Quantity:    m.Quantity,
			BeforeStock: m.BeforeStock,
			AfterStock:  m.AfterStock,
			OrderID:     m.OrderID,
			OperatorID:  m.OperatorID,
			Remark:      m.Remark,
			CreatedAt:   m.CreatedAt,
		}
	}
	return logs, nil
}
