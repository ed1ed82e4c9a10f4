package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/pkg/metrics"
)

// UpdateStatusUseCase 管理员推进订单状态
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	events    *EventNotifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewUpdateStatusUseCase 创建状态推进用例
func NewUpdateStatusUseCase(orderRepo order.Repository, events *EventNotifier, logger *zap.Logger) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orderRepo: orderRepo, events: events, logger: logger, now: time.Now}
}

// UpdateStatusRequest 状态推进请求
type UpdateStatusRequest struct {
	OrderID uint
	Status  int
}

// Execute 执行状态推进
// 单条CAS更新,不需要事务
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) (*OrderDTO, error) {
	target := order.OrderStatus(req.Status)
	if !target.Valid() {
		return nil, order.ErrInvalidStatus
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	prev := o.Status
	if err := o.AdvanceByAdmin(target, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdateStatus(ctx, o, prev); err != nil {
		return nil, err
	}

	recordTransition(prev, target)
	uc.events.Notify(ctx, event.TopicOrderStatusChanged, o, prev)
	uc.logger.Info("订单状态变更",
		zap.String("order_no", o.OrderNo),
		zap.Stringer("from", prev),
		zap.Stringer("to", target),
	)
	return toOrderDTO(o), nil
}

// ConfirmReceivedUseCase 用户确认收货(货到付款在此结算)
type ConfirmReceivedUseCase struct {
	orderRepo order.Repository
	events    *EventNotifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewConfirmReceivedUseCase 创建确认收货用例
func NewConfirmReceivedUseCase(orderRepo order.Repository, events *EventNotifier, logger *zap.Logger) *ConfirmReceivedUseCase {
	return &ConfirmReceivedUseCase{orderRepo: orderRepo, events: events, logger: logger, now: time.Now}
}

// Execute 执行确认收货
func (uc *ConfirmReceivedUseCase) Execute(ctx context.Context, orderID, userID uint) (*OrderDTO, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrNotOrderOwner
	}

	prev := o.Status
	if err := o.ConfirmReceived(uc.now()); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdateStatus(ctx, o, prev); err != nil {
		return nil, err
	}

	recordTransition(prev, o.Status)
	uc.events.Notify(ctx, event.TopicOrderDelivered, o, prev)
	uc.logger.Info("订单已送达", zap.String("order_no", o.OrderNo))
	return toOrderDTO(o), nil
}

func recordTransition(from, to order.OrderStatus) {
	metrics.InitMetrics()
	metrics.IncCounterVec(metrics.OrderTransitionsTotal, map[string]string{
		"from": from.String(),
		"to":   to.String(),
	})
}
