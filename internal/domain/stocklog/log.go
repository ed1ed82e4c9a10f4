package stocklog

import (
	"context"
	"time"
)

// StockLog 库存变更日志
// 只增不改,记录变更前后库存和关联订单,用于审计与对账
type StockLog struct {
	ID          uint
	BookID      uint
	ChangeType  ChangeType
	Quantity    int // 正数=增加,负数=减少
	BeforeStock int
	AfterStock  int
	OrderID     uint // 关联订单(可选)
	OperatorID  uint // 操作人(管理员调整时记录)
	Remark      string
	CreatedAt   time.Time
}

// ChangeType 库存变更类型
type ChangeType string

const (
	ChangeTypeDeduct  ChangeType = "DEDUCT"  // 下单扣减
	ChangeTypeRelease ChangeType = "RELEASE" // 取消订单回补
	ChangeTypeRestock ChangeType = "RESTOCK" // 管理员补货/上架
	ChangeTypeAdjust  ChangeType = "ADJUST"  // 管理员下调库存
)

// NewDeductLog 创建扣减日志
func NewDeductLog(bookID uint, quantity, before int, orderID uint) *StockLog {
	return &StockLog{
		BookID:      bookID,
		ChangeType:  ChangeTypeDeduct,
		Quantity:    -quantity,
		BeforeStock: before,
		AfterStock:  before - quantity,
		OrderID:     orderID,
	}
}

// NewReleaseLog 创建回补日志
func NewReleaseLog(bookID uint, quantity, before int, orderID uint, reason string) *StockLog {
	return &StockLog{
		BookID:      bookID,
		ChangeType:  ChangeTypeRelease,
		Quantity:    quantity,
		BeforeStock: before,
		AfterStock:  before + quantity,
		OrderID:     orderID,
		Remark:      reason,
	}
}

// NewAdminLog 管理员编辑库存产生的日志,delta为0时返回nil
func NewAdminLog(bookID uint, before, after int, operatorID uint) *StockLog {
	delta := after - before
	if delta == 0 {
		return nil
	}
	changeType := ChangeTypeRestock
	if delta < 0 {
		changeType = ChangeTypeAdjust
	}
	return &StockLog{
		BookID:      bookID,
		ChangeType:  changeType,
		Quantity:    delta,
		BeforeStock: before,
		AfterStock:  after,
		OperatorID:  operatorID,
	}
}

// Repository 库存日志仓储
type Repository interface {
	// BatchCreate 批量写入,需与库存变更处于同一事务
	BatchCreate(ctx context.Context, logs []*StockLog) error

	// ListByBook 图书库存流水(最新在前)
	ListByBook(ctx context.Context, bookID uint, limit int) ([]*StockLog, error)
}
