package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

type fakeBroker struct {
	mu    sync.Mutex
	err   error
	calls int
	keys  []string
}

func (b *fakeBroker) Publish(_ context.Context, routingKey string, _ interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return b.err
	}
	b.keys = append(b.keys, routingKey)
	return nil
}

func TestEventPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("正常发布", func(t *testing.T) {
		broker := &fakeBroker{}
		p := NewEventPublisher(broker, zap.NewNop())

		require.NoError(t, p.Publish(ctx, event.TopicOrderCreated, event.OrderEvent{OrderID: 1}))
		assert.Equal(t, []string{event.TopicOrderCreated}, broker.keys)
		assert.Equal(t, circuitbreaker.StateClosed, p.State())
	})

	t.Run("连续失败后熔断", func(t *testing.T) {
		broker := &fakeBroker{err: errors.New("connection reset")}
		p := NewEventPublisher(broker, zap.NewNop())

		for i := 0; i < 5; i++ {
			err := p.Publish(ctx, event.TopicOrderCreated, nil)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMQError))
		}
		assert.Equal(t, circuitbreaker.StateOpen, p.State())

		err := p.Publish(ctx, event.TopicOrderCreated, nil)
		assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
		assert.Equal(t, 5, broker.calls, "熔断后不再调用代理")
		t.Logf("✓ 熔断后快速失败: %v", err)
	})
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	err := p.Publish(context.Background(), event.TopicOTPRequested, event.OTPEvent{Email: "a@b.com", Code: "123456"})
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("topic", event.TopicOTPRequested)).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["payload"], "123456")
}
