package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/shared"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/pkg/metrics"
)

// CancelOrderUseCase 用户取消订单
// NEW或窗口期内的CONFIRMED直接取消并回补库存,其余非终态只登记取消申请
type CancelOrderUseCase struct {
	orderRepo    order.Repository
	bookRepo     book.Repository
	stockLogs    stocklog.Repository
	txManager    shared.TxManager
	events       *EventNotifier
	cancelWindow time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	stockLogs stocklog.Repository,
	txManager shared.TxManager,
	events *EventNotifier,
	cfg config.OrderConfig,
	logger *zap.Logger,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:    orderRepo,
		bookRepo:     bookRepo,
		stockLogs:    stockLogs,
		txManager:    txManager,
		events:       events,
		cancelWindow: cfg.CancelWindow,
		logger:       logger,
		now:          time.Now,
	}
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	OrderID uint
	UserID  uint
	Reason  string
}

// Execute 执行取消
func (uc *CancelOrderUseCase) Execute(ctx context.Context, req CancelOrderRequest) (*OrderDTO, error) {
	var (
		o       *order.Order
		prev    order.OrderStatus
		outcome order.CancelOutcome
	)

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		// 1. 查询订单并校验所有权
		o, err = uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(req.UserID) {
			return order.ErrNotOrderOwner
		}

		// 2. 领域规则决定直接取消还是登记申请
		prev = o.Status
		outcome, err = o.CancelByOwner(uc.now(), uc.cancelWindow, req.Reason)
		if err != nil {
			return err
		}

		// 3. CAS更新状态,并发取消时只有一个能成功(防止重复回补库存)
		if err := uc.orderRepo.UpdateStatus(txCtx, o, prev); err != nil {
			return err
		}
		if outcome != order.CancelDirect {
			return nil
		}

		// 4. 回补库存
		logs := make([]*stocklog.StockLog, 0, len(o.Items))
		for _, item := range o.Items {
			after, err := uc.bookRepo.RestoreStock(txCtx, item.BookID, item.Quantity)
			if err != nil {
				return err
			}
			logs = append(logs, stocklog.NewReleaseLog(item.BookID, item.Quantity, after-item.Quantity, o.ID, o.CancelReason))
		}
		return uc.stockLogs.BatchCreate(txCtx, logs)
	})
	if err != nil {
		return nil, err
	}

	metrics.InitMetrics()
	if outcome == order.CancelDirect {
		metrics.IncCounterVec(metrics.OrdersCancelledTotal, map[string]string{"mode": "direct"})
		uc.events.Notify(ctx, event.TopicOrderCancelled, o, prev)
	} else {
		metrics.IncCounterVec(metrics.OrdersCancelledTotal, map[string]string{"mode": "requested"})
		uc.events.Notify(ctx, event.TopicOrderCancelRequested, o, prev)
	}
	uc.logger.Info("订单取消",
		zap.String("order_no", o.OrderNo),
		zap.Bool("requested", outcome == order.CancelRequested),
		zap.String("reason", o.CancelReason),
	)

	return toOrderDTO(o), nil
}
