package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, email Email) error {
	return m.Called(ctx, email).Error(0)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestNotifier_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("验证码邮件", func(t *testing.T) {
		mailer := new(mockMailer)
		mailer.On("Send", ctx, mock.MatchedBy(func(e Email) bool {
			return e.To == "a@example.com" && e.Subject == "重置密码验证码" && strings.Contains(e.Body, "654321")
		})).Return(nil).Once()

		n := NewNotifier(mailer, zap.NewNop())
		body := mustJSON(t, event.OTPEvent{Email: "a@example.com", Code: "654321", Purpose: event.OTPPurposeResetPassword, ExpiresIn: 600})
		require.NoError(t, n.Handle(ctx, event.TopicOTPRequested, body))
		mailer.AssertExpectations(t)
	})

	t.Run("订单事件按路由键生成主题", func(t *testing.T) {
		cases := map[string]string{
			event.TopicOrderCreated:         "已提交",
			event.TopicOrderCancelled:       "已取消",
			event.TopicOrderCancelRequested: "取消申请",
			event.TopicOrderDelivered:       "已送达",
			event.TopicOrderStatusChanged:   "状态更新",
		}
		for key, want := range cases {
			mailer := new(mockMailer)
			mailer.On("Send", ctx, mock.MatchedBy(func(e Email) bool {
				return strings.Contains(e.Subject, want) && strings.Contains(e.Subject, "BK123")
			})).Return(nil).Once()

			n := NewNotifier(mailer, zap.NewNop())
			body := mustJSON(t, event.OrderEvent{OrderNo: "BK123", Email: "b@example.com", Status: 4})
			require.NoError(t, n.Handle(ctx, key, body), key)
			mailer.AssertExpectations(t)
		}
	})

	t.Run("缺少邮箱或无法解析时跳过", func(t *testing.T) {
		mailer := new(mockMailer)
		n := NewNotifier(mailer, zap.NewNop())

		assert.NoError(t, n.Handle(ctx, event.TopicOrderCreated, mustJSON(t, event.OrderEvent{OrderNo: "BK1"})))
		assert.NoError(t, n.Handle(ctx, event.TopicOrderCreated, []byte("{not json")))
		assert.NoError(t, n.Handle(ctx, "inventory.changed", []byte("{}")))
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("发送失败时返回错误以便重新入队", func(t *testing.T) {
		mailer := new(mockMailer)
		mailer.On("Send", ctx, mock.Anything).Return(errors.New("smtp timeout"))

		n := NewNotifier(mailer, zap.NewNop())
		body := mustJSON(t, event.OrderEvent{OrderNo: "BK2", Email: "c@example.com"})
		assert.Error(t, n.Handle(ctx, event.TopicOrderDelivered, body))
	})
}
