// Package saga 跨存储的补偿事务
//
// 用户、图书数据位于MySQL，收藏夹位于MongoDB，两者无法放进同一个数据库事务。
// 删除用户、删除图书这类跨存储操作按步骤执行，任一步失败时按相反顺序执行已完成步骤的补偿操作。
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/pkg/metrics"
)

// Step Saga中的一个步骤
type Step struct {
	Name       string                          // 步骤名称（用于日志）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作，可为nil
}

// Saga 补偿事务编排器（非并发安全，每次业务调用新建一个）
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSaga 创建Saga
func NewSaga(name string, timeout time.Duration, logger *zap.Logger) *Saga {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga{
		name:    name,
		timeout: timeout,
		logger:  logger,
	}
}

// AddStep 添加步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
	return s
}

// Execute 按顺序执行所有步骤
// 任一步失败（或超时）时补偿已执行的步骤，并返回原始错误
func (s *Saga) Execute(ctx context.Context) (err error) {
	metrics.InitMetrics()
	defer func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		metrics.SagaExecutionsTotal.WithLabelValues(s.name, result).Inc()
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.compensate()
			return fmt.Errorf("saga[%s]超时: %w", s.name, ctxErr)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.logger.Warn("saga步骤失败，开始补偿",
					zap.String("saga", s.name),
					zap.Int("step_index", i),
					zap.String("step", step.Name),
					zap.Error(err),
				)
				s.compensate()
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行补偿
// 使用独立Context，避免原请求取消导致补偿也被取消
func (s *Saga) compensate() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		metrics.IncCounter(metrics.SagaCompensationsTotal)
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("saga补偿失败，需要人工介入",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
	s.executed = nil
}
