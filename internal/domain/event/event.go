// Package event 领域事件定义
// 事件在事务提交后发布,消费方(通知服务)必须能容忍重复投递
package event

import (
	"context"
	"time"
)

// 路由键
const (
	TopicOrderCreated         = "order.created"
	TopicOrderCancelled       = "order.cancelled"
	TopicOrderCancelRequested = "order.cancel_requested"
	TopicOrderStatusChanged   = "order.status_changed"
	TopicOrderDelivered       = "order.delivered"
	TopicOTPRequested         = "user.otp_requested"
)

// Publisher 领域事件发布接口
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// OrderEvent 订单事件载荷
type OrderEvent struct {
	OrderID    uint      `json:"orderId"`
	OrderNo    string    `json:"orderNo"`
	UserID     uint      `json:"userId"`
	Email      string    `json:"email,omitempty"`
	Status     int       `json:"status"`
	PrevStatus int       `json:"prevStatus,omitempty"`
	TotalPrice int64     `json:"totalPrice"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// OTP用途
const (
	OTPPurposeRegister      = "register"
	OTPPurposeResetPassword = "reset_password"
)

// OTPEvent 验证码事件载荷
type OTPEvent struct {
	Email      string    `json:"email"`
	Code       string    `json:"code"`
	Purpose    string    `json:"purpose"`
	ExpiresIn  int       `json:"expiresIn"` // 秒
	OccurredAt time.Time `json:"occurredAt"`
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
