// Package messaging 领域事件发布
//
// 事件在事务提交后发布，经熔断器保护：
// MQ不可用时快速失败，不拖慢下单、取消等主流程。
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
	"github.com/xiebiao/bookmall/pkg/metrics"
)

const breakerName = "event_publisher"

// Broker 消息代理（mq.Publisher）
type Broker interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 基于消息代理的事件发布者
type EventPublisher struct {
	broker  Broker
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

var _ event.Publisher = (*EventPublisher)(nil)

// NewEventPublisher 创建事件发布者
// 连续5次发布失败后熔断30秒
func NewEventPublisher(broker Broker, logger *zap.Logger) *EventPublisher {
	metrics.InitMetrics()

	cb := circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": breakerName}, float64(circuitbreaker.StateClosed))

	return &EventPublisher{
		broker:  broker,
		breaker: cb,
		timeout: 3 * time.Second,
		logger:  logger,
	}
}

// Publish 发布事件
func (p *EventPublisher) Publish(ctx context.Context, topic string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.breaker.Execute(func() error {
		return p.broker.Publish(ctx, topic, payload)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": breakerName, "result": result})

	if err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeMQError, Message: "事件发布失败", Err: err}
	}
	return nil
}

// State 熔断器状态
func (p *EventPublisher) State() circuitbreaker.State {
	return p.breaker.State()
}

// LogPublisher 未启用MQ时把事件写入日志（开发环境可在日志中看到验证码）
type LogPublisher struct {
	logger *zap.Logger
}

var _ event.Publisher = (*LogPublisher)(nil)

// NewLogPublisher 创建日志发布者
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish 记录事件
func (p *LogPublisher) Publish(_ context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, "事件序列化失败")
	}
	p.logger.Info("领域事件", zap.String("topic", topic), zap.ByteString("payload", body))
	return nil
}
