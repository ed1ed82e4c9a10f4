package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/user"
)

// EventNotifier 订单事件发布
// 事务提交后调用；发布失败只记日志，不影响已提交的业务结果
type EventNotifier struct {
	publisher event.Publisher
	users     user.Repository
	logger    *zap.Logger
}

// NewEventNotifier 创建订单事件发布器，users用于补全买家邮箱（可为nil）
func NewEventNotifier(publisher event.Publisher, users user.Repository, logger *zap.Logger) *EventNotifier {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventNotifier{publisher: publisher, users: users, logger: logger}
}

// Notify 发布订单事件
func (n *EventNotifier) Notify(ctx context.Context, topic string, o *order.Order, prev order.OrderStatus) {
	payload := event.OrderEvent{
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		Status:     int(o.Status),
		PrevStatus: int(prev),
		TotalPrice: o.TotalPrice,
		Reason:     o.CancelReason,
		OccurredAt: time.Now(),
	}
	if n.users != nil {
		if u, err := n.users.FindByID(ctx, o.UserID); err == nil {
			payload.Email = u.Email
		}
	}

	if err := n.publisher.Publish(ctx, topic, payload); err != nil {
		n.logger.Warn("订单事件发布失败",
			zap.String("topic", topic),
			zap.String("order_no", o.OrderNo),
			zap.Error(err),
		)
	}
}
