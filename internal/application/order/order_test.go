package order

import (
	"context"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/testutil"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
	"github.com/xiebiao/bookmall/pkg/metrics"
)

var testOrderConfig = config.OrderConfig{
	CancelWindow:   30 * time.Minute,
	ShippingFee:    30000,
	IdempotencyTTL: time.Hour,
}

type orderSuite struct {
	fx      *testutil.Fixture
	create  *CreateOrderUseCase
	cancel  *CancelOrderUseCase
	advance *UpdateStatusUseCase
	receive *ConfirmReceivedUseCase
	get     *GetOrderUseCase
	list    *ListOrdersUseCase
	buyer   uint
}

func newOrderSuite(t *testing.T) *orderSuite {
	t.Helper()
	fx := testutil.NewFixture()
	log := zap.NewNop()

	buyer := user.NewUser("buyer@example.com", "hash", "Buyer", "buyer")
	require.NoError(t, fx.Users.Create(context.Background(), buyer))

	events := NewEventNotifier(fx.Events, fx.Users, log)
	return &orderSuite{
		fx:      fx,
		create:  NewCreateOrderUseCase(fx.Orders, fx.Books, fx.StockLogs, fx.Tx, testutil.NewIdempotencyStore(), events, testOrderConfig, log),
		cancel:  NewCancelOrderUseCase(fx.Orders, fx.Books, fx.StockLogs, fx.Tx, events, testOrderConfig, log),
		advance: NewUpdateStatusUseCase(fx.Orders, events, log),
		receive: NewConfirmReceivedUseCase(fx.Orders, events, log),
		get:     NewGetOrderUseCase(fx.Orders),
		list:    NewListOrdersUseCase(fx.Orders),
		buyer:   buyer.ID,
	}
}

func (s *orderSuite) seedBook(title string, price int64, stock int) uint {
	return s.fx.Books.Seed(&book.Book{Title: title, Author: "Author", Category: "Fiction", Price: price, Stock: stock})
}

func testAddress() order.ShippingAddress {
	return order.ShippingAddress{FullName: "Nguyen Van A", Address: "1 Le Loi", City: "Hanoi", Phone: "0912345678"}
}

func (s *orderSuite) placeOrder(t *testing.T, items ...CreateOrderItem) *OrderDTO {
	t.Helper()
	o, err := s.create.Execute(context.Background(), CreateOrderRequest{
		UserID:          s.buyer,
		Items:           items,
		ShippingAddress: testAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})
	require.NoError(t, err)
	return o
}

// staleBooks 模拟事务内的非锁定读:FindByID返回的库存比实际多offset
type staleBooks struct {
	book.Repository
	offset int
}

func (r staleBooks) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Stock += r.offset
	return b, nil
}

func ordersCreated(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.OrdersCreatedTotal.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("下单成功扣减库存", func(t *testing.T) {
		s := newOrderSuite(t)
		b1 := s.seedBook("Go语言圣经", 100000, 5)
		b2 := s.seedBook("深入理解计算机系统", 150000, 2)

		o := s.placeOrder(t, CreateOrderItem{BookID: b1, Quantity: 2}, CreateOrderItem{BookID: b2, Quantity: 1})

		assert.Equal(t, int(order.OrderStatusNew), o.Status)
		assert.False(t, o.IsPaid)
		assert.Equal(t, int64(350000), o.ItemsPrice)
		assert.Equal(t, int64(30000), o.ShippingPrice)
		assert.Equal(t, int64(380000), o.TotalPrice)
		assert.Len(t, o.OrderNo, 22)
		require.Len(t, o.OrderItems, 2)
		assert.Equal(t, "Go语言圣经", o.OrderItems[0].Title)

		assert.Equal(t, 3, s.fx.Books.Get(b1).Stock)
		assert.Equal(t, 2, s.fx.Books.Get(b1).Sold)
		assert.Equal(t, 1, s.fx.Books.Get(b2).Stock)

		logs := s.fx.StockLogs.All()
		require.Len(t, logs, 2)
		assert.Equal(t, stocklog.ChangeTypeDeduct, logs[0].ChangeType)
		assert.Equal(t, 5, logs[0].BeforeStock)
		assert.Equal(t, 3, logs[0].AfterStock)
		assert.Equal(t, o.ID, logs[0].OrderID)

		last, ok := s.fx.Events.Last()
		require.True(t, ok)
		assert.Equal(t, event.TopicOrderCreated, last.Topic)
		assert.Equal(t, "buyer@example.com", last.Payload.(event.OrderEvent).Email)
		t.Logf("✓ 订单创建成功: %s", o.OrderNo)
	})

	t.Run("同一本书的多个明细合并", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)

		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1}, CreateOrderItem{BookID: b, Quantity: 2})
		require.Len(t, o.OrderItems, 1)
		assert.Equal(t, 3, o.OrderItems[0].Quantity)
		assert.Equal(t, 2, s.fx.Books.Get(b).Stock)
	})

	t.Run("参数校验", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)

		_, err := s.create.Execute(ctx, CreateOrderRequest{UserID: s.buyer, ShippingAddress: testAddress()})
		assert.ErrorIs(t, err, order.ErrEmptyOrderItems)

		_, err = s.create.Execute(ctx, CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b, Quantity: 0}},
			ShippingAddress: testAddress(),
		})
		assert.ErrorIs(t, err, order.ErrInvalidQuantity)

		_, err = s.create.Execute(ctx, CreateOrderRequest{
			UserID: s.buyer,
			Items:  []CreateOrderItem{{BookID: b, Quantity: 1}},
		})
		assert.ErrorIs(t, err, order.ErrInvalidShippingAddress)

		assert.Equal(t, 5, s.fx.Books.Get(b).Stock)
		assert.Zero(t, s.fx.Orders.Count())
	})

	t.Run("图书不存在返回404", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)

		_, err := s.create.Execute(ctx, CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b, Quantity: 1}, {BookID: 9999, Quantity: 1}},
			ShippingAddress: testAddress(),
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperrors.GetAppError(err).HTTPStatus())
		assert.Equal(t, 5, s.fx.Books.Get(b).Stock)
		assert.Zero(t, s.fx.Orders.Count())
	})

	t.Run("任一明细库存不足整体回滚", func(t *testing.T) {
		s := newOrderSuite(t)
		b1 := s.seedBook("A", 1000, 5)
		b2 := s.seedBook("B", 1000, 1)

		_, err := s.create.Execute(ctx, CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b1, Quantity: 2}, {BookID: b2, Quantity: 2}},
			ShippingAddress: testAddress(),
		})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
		assert.Equal(t, 400, appErr.HTTPStatus())
		assert.Contains(t, appErr.Message, "B")
		assert.Contains(t, appErr.Message, "1")

		assert.Equal(t, 5, s.fx.Books.Get(b1).Stock)
		assert.Zero(t, s.fx.Books.Get(b1).Sold)
		assert.Zero(t, s.fx.Orders.Count())
		assert.Empty(t, s.fx.StockLogs.All())
		assert.Empty(t, s.fx.Events.Topics())
		t.Log("✓ 库存不足时订单、库存、日志全部回滚")
	})

	t.Run("价格以数据库为准", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 12345, 5)

		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 2})
		assert.Equal(t, int64(12345), o.OrderItems[0].Price)
		assert.Equal(t, int64(24690), o.ItemsPrice)
	})

	t.Run("并发下单不会超卖", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Hot", 1000, 5)

		var wg sync.WaitGroup
		var mu sync.Mutex
		success, failed := 0, 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.create.Execute(ctx, CreateOrderRequest{
					UserID:          s.buyer,
					Items:           []CreateOrderItem{{BookID: b, Quantity: 1}},
					ShippingAddress: testAddress(),
				})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInsufficientStock))
					failed++
					return
				}
				success++
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, success)
		assert.Equal(t, 15, failed)
		assert.Zero(t, s.fx.Books.Get(b).Stock)
		assert.Equal(t, 5, s.fx.Books.Get(b).Sold)
		t.Logf("✓ 20个并发请求,成功%d,失败%d", success, failed)
	})

	t.Run("幂等键重复提交返回首个订单", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		req := CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b, Quantity: 1}},
			ShippingAddress: testAddress(),
			IdempotencyKey:  "checkout-1",
		}

		first, err := s.create.Execute(ctx, req)
		require.NoError(t, err)
		second, err := s.create.Execute(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 4, s.fx.Books.Get(b).Stock)
		assert.Equal(t, 1, s.fx.Orders.Count())
	})

	t.Run("幂等重放不计入新建订单", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		req := CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b, Quantity: 1}},
			ShippingAddress: testAddress(),
			IdempotencyKey:  "checkout-metrics",
		}

		_, err := s.create.Execute(ctx, req)
		require.NoError(t, err)
		created := ordersCreated(t)

		_, err = s.create.Execute(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, created, ordersCreated(t))
	})

	t.Run("库存日志以扣减结果为准", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		events := NewEventNotifier(s.fx.Events, s.fx.Users, zap.NewNop())
		create := NewCreateOrderUseCase(s.fx.Orders, staleBooks{Repository: s.fx.Books, offset: 4},
			s.fx.StockLogs, s.fx.Tx, nil, events, testOrderConfig, zap.NewNop())

		_, err := create.Execute(ctx, CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b, Quantity: 2}},
			ShippingAddress: testAddress(),
		})
		require.NoError(t, err)

		logs := s.fx.StockLogs.All()
		require.Len(t, logs, 1)
		assert.Equal(t, 5, logs[0].BeforeStock)
		assert.Equal(t, 3, logs[0].AfterStock)
		assert.Equal(t, 3, s.fx.Books.Get(b).Stock)
	})

	t.Run("失败的请求释放幂等键", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 1)
		req := CreateOrderRequest{
			UserID:          s.buyer,
			Items:           []CreateOrderItem{{BookID: b, Quantity: 2}},
			ShippingAddress: testAddress(),
			IdempotencyKey:  "checkout-2",
		}

		_, err := s.create.Execute(ctx, req)
		require.Error(t, err)

		req.Items[0].Quantity = 1
		o, err := s.create.Execute(ctx, req)
		require.NoError(t, err)
		assert.NotZero(t, o.ID)
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("新订单直接取消并回补库存", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 3})

		got, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer, Reason: "买错了"})
		require.NoError(t, err)
		assert.Equal(t, int(order.OrderStatusCancelled), got.Status)
		assert.Equal(t, "买错了", got.CancelReason)
		assert.NotNil(t, got.CancelledAt)

		assert.Equal(t, 5, s.fx.Books.Get(b).Stock)
		assert.Zero(t, s.fx.Books.Get(b).Sold)

		logs := s.fx.StockLogs.All()
		require.Len(t, logs, 2)
		assert.Equal(t, stocklog.ChangeTypeRelease, logs[1].ChangeType)
		assert.Equal(t, 2, logs[1].BeforeStock)
		assert.Equal(t, 5, logs[1].AfterStock)

		last, _ := s.fx.Events.Last()
		assert.Equal(t, event.TopicOrderCancelled, last.Topic)
	})

	t.Run("重复取消不会重复回补库存", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 3})

		_, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		require.NoError(t, err)
		_, err = s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		assert.Equal(t, 5, s.fx.Books.Get(b).Stock)
	})

	t.Run("默认取消原因", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1})

		got, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		require.NoError(t, err)
		assert.Equal(t, order.DefaultCancelReason, got.CancelReason)
	})

	t.Run("非本人订单返回403", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1})

		_, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer + 100})
		require.ErrorIs(t, err, order.ErrNotOrderOwner)
		assert.Equal(t, 403, apperrors.GetAppError(err).HTTPStatus())
		assert.Equal(t, 4, s.fx.Books.Get(b).Stock)
	})

	t.Run("已确认订单在窗口期内可直接取消", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 2})
		_, err := s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusConfirmed)})
		require.NoError(t, err)

		s.cancel.now = func() time.Time { return o.CreatedAt.Add(29 * time.Minute) }
		got, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		require.NoError(t, err)
		assert.Equal(t, int(order.OrderStatusCancelled), got.Status)
		assert.Equal(t, 5, s.fx.Books.Get(b).Stock)
	})

	t.Run("超过窗口期只登记取消申请", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 2})
		_, err := s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusConfirmed)})
		require.NoError(t, err)

		s.cancel.now = func() time.Time { return o.CreatedAt.Add(31 * time.Minute) }
		got, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer, Reason: "不想要了"})
		require.NoError(t, err)
		assert.Equal(t, int(order.OrderStatusConfirmed), got.Status)
		assert.True(t, got.CancelRequested)
		assert.Equal(t, "不想要了", got.CancelReason)
		assert.Equal(t, 3, s.fx.Books.Get(b).Stock)

		last, _ := s.fx.Events.Last()
		assert.Equal(t, event.TopicOrderCancelRequested, last.Topic)

		_, err = s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		assert.ErrorIs(t, err, order.ErrCancelAlreadyRequested)

		// 管理员可筛选出待处理的取消申请
		flagged := true
		list, err := s.list.AdminList(ctx, ListOrdersRequest{CancelRequested: &flagged})
		require.NoError(t, err)
		require.Len(t, list.Orders, 1)
		assert.Equal(t, o.ID, list.Orders[0].ID)
	})

	t.Run("配送中订单只能申请取消", func(t *testing.T) {
		s := newOrderSuite(t)
		b := s.seedBook("Book", 1000, 5)
		o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1})
		for _, st := range []order.OrderStatus{order.OrderStatusConfirmed, order.OrderStatusPreparing, order.OrderStatusShipping} {
			_, err := s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(st)})
			require.NoError(t, err)
		}

		got, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		require.NoError(t, err)
		assert.Equal(t, int(order.OrderStatusShipping), got.Status)
		assert.True(t, got.CancelRequested)
		assert.Equal(t, 4, s.fx.Books.Get(b).Stock)
	})
}

func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newOrderSuite(t)
	b := s.seedBook("Book", 1000, 5)
	o := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1})

	t.Run("管理员不能跳级推进", func(t *testing.T) {
		_, err := s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusPreparing)})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)

		_, err = s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: 9})
		assert.ErrorIs(t, err, order.ErrInvalidStatus)
	})

	t.Run("未发货不能确认收货", func(t *testing.T) {
		_, err := s.receive.Execute(ctx, o.ID, s.buyer)
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("逐级推进", func(t *testing.T) {
		got, err := s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusConfirmed)})
		require.NoError(t, err)
		assert.NotNil(t, got.ConfirmedAt)

		_, err = s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusPreparing)})
		require.NoError(t, err)
		_, err = s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusShipping)})
		require.NoError(t, err)

		// 管理员不能代替用户确认收货
		_, err = s.advance.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, Status: int(order.OrderStatusDelivered)})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("非本人不能确认收货", func(t *testing.T) {
		_, err := s.receive.Execute(ctx, o.ID, s.buyer+1)
		assert.ErrorIs(t, err, order.ErrNotOrderOwner)
	})

	t.Run("确认收货完成货到付款结算", func(t *testing.T) {
		got, err := s.receive.Execute(ctx, o.ID, s.buyer)
		require.NoError(t, err)
		assert.Equal(t, int(order.OrderStatusDelivered), got.Status)
		assert.True(t, got.IsPaid)
		assert.NotNil(t, got.PaidAt)
		assert.NotNil(t, got.DeliveredAt)

		last, _ := s.fx.Events.Last()
		assert.Equal(t, event.TopicOrderDelivered, last.Topic)
	})

	t.Run("终态拒绝任何操作", func(t *testing.T) {
		_, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: o.ID, UserID: s.buyer})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		_, err = s.receive.Execute(ctx, o.ID, s.buyer)
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		assert.Equal(t, 4, s.fx.Books.Get(b).Stock)
	})
}

func TestQueryOrders(t *testing.T) {
	ctx := context.Background()
	s := newOrderSuite(t)
	b := s.seedBook("Book", 1000, 10)
	first := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1})
	second := s.placeOrder(t, CreateOrderItem{BookID: b, Quantity: 1})

	t.Run("本人和管理员可查看详情", func(t *testing.T) {
		got, err := s.get.Execute(ctx, first.ID, s.buyer, false)
		require.NoError(t, err)
		assert.Equal(t, first.OrderNo, got.OrderNo)

		_, err = s.get.Execute(ctx, first.ID, 9999, false)
		assert.ErrorIs(t, err, order.ErrNotOrderOwner)

		_, err = s.get.Execute(ctx, first.ID, 9999, true)
		assert.NoError(t, err)

		_, err = s.get.Execute(ctx, 424242, s.buyer, false)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("我的订单最新在前", func(t *testing.T) {
		list, err := s.list.MyOrders(ctx, s.buyer, 1, 10)
		require.NoError(t, err)
		require.Len(t, list.Orders, 2)
		assert.Equal(t, second.ID, list.Orders[0].ID)
		assert.Equal(t, int64(2), list.TotalOrders)
		assert.Equal(t, 1, list.Pages)

		other, err := s.list.MyOrders(ctx, s.buyer+1, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, other.Orders)
	})

	t.Run("管理员按状态过滤", func(t *testing.T) {
		_, err := s.cancel.Execute(ctx, CancelOrderRequest{OrderID: first.ID, UserID: s.buyer})
		require.NoError(t, err)

		list, err := s.list.AdminList(ctx, ListOrdersRequest{Status: int(order.OrderStatusCancelled)})
		require.NoError(t, err)
		require.Len(t, list.Orders, 1)
		assert.Equal(t, first.ID, list.Orders[0].ID)

		_, err = s.list.AdminList(ctx, ListOrdersRequest{Status: 7})
		assert.ErrorIs(t, err, order.ErrInvalidStatus)
	})
}

func TestMergeItems(t *testing.T) {
	merged := mergeItems([]CreateOrderItem{{BookID: 3, Quantity: 1}, {BookID: 1, Quantity: 2}, {BookID: 3, Quantity: 4}})
	assert.Equal(t, []CreateOrderItem{{BookID: 1, Quantity: 2}, {BookID: 3, Quantity: 5}}, merged)
}
