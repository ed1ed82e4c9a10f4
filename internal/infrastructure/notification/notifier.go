// Package notification 消费领域事件并发送邮件通知
//
// 消息可能重复投递，同一事件重复发送邮件可以接受；
// 无法解析的消息直接丢弃，避免反复入队。
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
)

// Email 邮件
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer 把邮件写入日志（未接入邮件服务商时使用）
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志邮件发送器
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 记录邮件
func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.logger.Info("发送邮件",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body),
	)
	return nil
}

// Notifier 事件 → 邮件
type Notifier struct {
	mailer Mailer
	logger *zap.Logger
}

// NewNotifier 创建通知处理器
func NewNotifier(mailer Mailer, logger *zap.Logger) *Notifier {
	return &Notifier{mailer: mailer, logger: logger}
}

// RoutingKeys 订阅的路由键
func RoutingKeys() []string {
	return []string{"order.*", "user.*"}
}

// Handle 处理一条消息（签名与mq.Handler一致）
// 返回error时消息重新入队
func (n *Notifier) Handle(ctx context.Context, routingKey string, body []byte) error {
	email, err := n.compose(routingKey, body)
	if err != nil {
		n.logger.Warn("丢弃无法解析的消息", zap.String("routing_key", routingKey), zap.Error(err))
		return nil
	}
	if email == nil {
		return nil
	}
	return n.mailer.Send(ctx, *email)
}

func (n *Notifier) compose(routingKey string, body []byte) (*Email, error) {
	if routingKey == event.TopicOTPRequested {
		var e event.OTPEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, err
		}
		return otpEmail(e), nil
	}

	if !strings.HasPrefix(routingKey, "order.") {
		return nil, nil
	}
	var e event.OrderEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, err
	}
	if e.Email == "" {
		n.logger.Debug("订单事件缺少邮箱，跳过", zap.String("order_no", e.OrderNo))
		return nil, nil
	}
	return orderEmail(routingKey, e), nil
}

func otpEmail(e event.OTPEvent) *Email {
	subject := "注册验证码"
	if e.Purpose == event.OTPPurposeResetPassword {
		subject = "重置密码验证码"
	}
	return &Email{
		To:      e.Email,
		Subject: subject,
		Body:    fmt.Sprintf("您的验证码是 %s，%d 分钟内有效。", e.Code, max(e.ExpiresIn/60, 1)),
	}
}

func orderEmail(routingKey string, e event.OrderEvent) *Email {
	var subject, body string
	switch routingKey {
	case event.TopicOrderCreated:
		subject = fmt.Sprintf("订单 %s 已提交", e.OrderNo)
		body = fmt.Sprintf("您的订单已提交，应付金额 %d（货到付款）。", e.TotalPrice)
	case event.TopicOrderCancelled:
		subject = fmt.Sprintf("订单 %s 已取消", e.OrderNo)
		body = "订单已取消。原因：" + e.Reason
	case event.TopicOrderCancelRequested:
		subject = fmt.Sprintf("订单 %s 取消申请已提交", e.OrderNo)
		body = "我们已收到您的取消申请，客服会尽快处理。"
	case event.TopicOrderDelivered:
		subject = fmt.Sprintf("订单 %s 已送达", e.OrderNo)
		body = "感谢您的购买，欢迎为图书撰写评价。"
	default:
		subject = fmt.Sprintf("订单 %s 状态更新", e.OrderNo)
		body = "订单状态：" + order.OrderStatus(e.Status).String()
	}
	return &Email{To: e.Email, Subject: subject, Body: body}
}
