package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	window   = 30 * time.Minute
)

func testAddress() ShippingAddress {
	return ShippingAddress{FullName: "张三", Address: "1 Nguyen Hue", City: "HCM", Phone: "0901234567"}
}

func newTestOrder(t *testing.T, status OrderStatus) *Order {
	t.Helper()
	o, err := NewOrder("BM1", 7, []OrderItem{
		{BookID: 1, Title: "A", Quantity: 3, Price: 100000},
		{BookID: 2, Title: "B", Quantity: 1, Price: 50000},
	}, testAddress(), "", 30000, baseTime)
	require.NoError(t, err)
	o.Status = status
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("计算金额并初始化状态", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusNew)
		assert.Equal(t, OrderStatusNew, o.Status)
		assert.False(t, o.IsPaid)
		assert.Equal(t, PaymentMethodCOD, o.PaymentMethod)
		assert.Equal(t, int64(350000), o.ItemsPrice)
		assert.Equal(t, int64(30000), o.ShippingPrice)
		assert.Equal(t, int64(380000), o.TotalPrice)
		assert.True(t, o.ContainsBook(2))
		assert.False(t, o.ContainsBook(3))
	})

	t.Run("空明细", func(t *testing.T) {
		_, err := NewOrder("BM1", 7, nil, testAddress(), "", 0, baseTime)
		assert.ErrorIs(t, err, ErrEmptyOrderItems)
	})

	t.Run("数量为0", func(t *testing.T) {
		_, err := NewOrder("BM1", 7, []OrderItem{{BookID: 1, Quantity: 0}}, testAddress(), "", 0, baseTime)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("地址不完整", func(t *testing.T) {
		addr := testAddress()
		addr.Phone = ""
		_, err := NewOrder("BM1", 7, []OrderItem{{BookID: 1, Quantity: 1}}, addr, "", 0, baseTime)
		assert.ErrorIs(t, err, ErrInvalidShippingAddress)
	})

	t.Run("不支持的支付方式", func(t *testing.T) {
		_, err := NewOrder("BM1", 7, []OrderItem{{BookID: 1, Quantity: 1}}, testAddress(), "CARD", 0, baseTime)
		assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
	})
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from  OrderStatus
		actor Actor
		to    OrderStatus
		want  bool
	}{
		{OrderStatusNew, ActorAdmin, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, ActorAdmin, OrderStatusPreparing, true},
		{OrderStatusPreparing, ActorAdmin, OrderStatusShipping, true},
		{OrderStatusShipping, ActorOwner, OrderStatusDelivered, true},
		{OrderStatusNew, ActorOwner, OrderStatusCancelled, true},
		{OrderStatusConfirmed, ActorOwner, OrderStatusCancelled, true},

		{OrderStatusNew, ActorAdmin, OrderStatusPreparing, false},   // 不能跳级
		{OrderStatusShipping, ActorAdmin, OrderStatusDelivered, false}, // 确认收货只能由用户发起
		{OrderStatusNew, ActorOwner, OrderStatusConfirmed, false},
		{OrderStatusPreparing, ActorOwner, OrderStatusCancelled, false},
		{OrderStatusDelivered, ActorAdmin, OrderStatusCancelled, false},
		{OrderStatusCancelled, ActorOwner, OrderStatusNew, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.actor, tc.to),
			"%s --%s--> %s", tc.from, tc.actor, tc.to)
	}
}

func TestOrder_AdvanceByAdmin(t *testing.T) {
	t.Run("确认时记录confirmedAt", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusNew)
		now := baseTime.Add(time.Minute)

		require.NoError(t, o.AdvanceByAdmin(OrderStatusConfirmed, now))
		assert.Equal(t, OrderStatusConfirmed, o.Status)
		require.NotNil(t, o.ConfirmedAt)
		assert.Equal(t, now, *o.ConfirmedAt)
	})

	t.Run("逐级推进到配送中", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusNew)
		for _, s := range []OrderStatus{OrderStatusConfirmed, OrderStatusPreparing, OrderStatusShipping} {
			require.NoError(t, o.AdvanceByAdmin(s, baseTime))
		}
		assert.Equal(t, OrderStatusShipping, o.Status)
	})

	t.Run("非法推进不修改订单", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusNew)
		err := o.AdvanceByAdmin(OrderStatusShipping, baseTime)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Equal(t, OrderStatusNew, o.Status)
		assert.Nil(t, o.ConfirmedAt)
	})
}

func TestOrder_CancelByOwner(t *testing.T) {
	t.Run("NEW直接取消", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusNew)
		outcome, err := o.CancelByOwner(baseTime.Add(2*time.Hour), window, "")
		require.NoError(t, err)
		assert.Equal(t, CancelDirect, outcome)
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, DefaultCancelReason, o.CancelReason)
		assert.NotNil(t, o.CancelledAt)
	})

	t.Run("CONFIRMED窗口内直接取消", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusConfirmed)
		outcome, err := o.CancelByOwner(baseTime.Add(30*time.Minute), window, "买错了")
		require.NoError(t, err)
		assert.Equal(t, CancelDirect, outcome)
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "买错了", o.CancelReason)
	})

	t.Run("CONFIRMED超过窗口只登记申请", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusConfirmed)
		outcome, err := o.CancelByOwner(baseTime.Add(31*time.Minute), window, "不想要了")
		require.NoError(t, err)
		assert.Equal(t, CancelRequested, outcome)
		assert.Equal(t, OrderStatusConfirmed, o.Status)
		assert.True(t, o.CancelRequested)
		assert.Equal(t, "不想要了", o.CancelReason)
	})

	t.Run("PREPARING和SHIPPING只登记申请", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusPreparing, OrderStatusShipping} {
			o := newTestOrder(t, s)
			outcome, err := o.CancelByOwner(baseTime, window, "")
			require.NoError(t, err)
			assert.Equal(t, CancelRequested, outcome)
			assert.Equal(t, s, o.Status)
			assert.True(t, o.CancelRequested)
		}
	})

	t.Run("重复申请", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusPreparing)
		_, err := o.CancelByOwner(baseTime, window, "")
		require.NoError(t, err)
		_, err = o.CancelByOwner(baseTime, window, "")
		assert.ErrorIs(t, err, ErrCancelAlreadyRequested)
	})

	t.Run("终态拒绝", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
			o := newTestOrder(t, s)
			_, err := o.CancelByOwner(baseTime, window, "")
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			assert.Equal(t, s, o.Status)
			assert.False(t, o.CancelRequested)
		}
	})
}

func TestOrder_ConfirmReceived(t *testing.T) {
	t.Run("配送中确认收货并结算货到付款", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusShipping)
		now := baseTime.Add(48 * time.Hour)

		require.NoError(t, o.ConfirmReceived(now))
		assert.Equal(t, OrderStatusDelivered, o.Status)
		assert.True(t, o.IsPaid)
		require.NotNil(t, o.PaidAt)
		require.NotNil(t, o.DeliveredAt)
		assert.Equal(t, now, *o.DeliveredAt)
	})

	t.Run("已支付不覆盖paidAt", func(t *testing.T) {
		o := newTestOrder(t, OrderStatusShipping)
		paidAt := baseTime
		o.IsPaid = true
		o.PaidAt = &paidAt

		require.NoError(t, o.ConfirmReceived(baseTime.Add(time.Hour)))
		assert.Equal(t, baseTime, *o.PaidAt)
	})

	t.Run("其他状态拒绝且不修改", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusNew, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled} {
			o := newTestOrder(t, s)
			err := o.ConfirmReceived(baseTime)
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			assert.Equal(t, s, o.Status)
			assert.False(t, o.IsPaid)
		}
	})
}

func TestOrderStatus(t *testing.T) {
	assert.Equal(t, "配送中", OrderStatusShipping.String())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus(7).Valid())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusShipping.IsTerminal())
	assert.True(t, CanTransition(OrderStatusNew, ActorAdmin, OrderStatusConfirmed))
	assert.False(t, CanTransition(OrderStatusDelivered, ActorOwner, OrderStatusCancelled))
}

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo(baseTime)
	assert.Len(t, no, 22)
	assert.Equal(t, "BM20250301100000", no[:16])
}
