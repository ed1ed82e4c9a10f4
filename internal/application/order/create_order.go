package order

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/shared"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
	"github.com/xiebiao/bookmall/pkg/metrics"
	"github.com/xiebiao/bookmall/pkg/tracing"
)

const tracerName = "application/order"

// ErrRequestInProgress 相同幂等键的请求仍在处理
var ErrRequestInProgress = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单正在处理中，请勿重复提交")

// IdempotencyStore 下单幂等键存储
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID uint, key string) (bool, *redis.IdempotencyRecord, error)
	MarkDone(ctx context.Context, userID uint, key string, orderID uint) error
	Release(ctx context.Context, userID uint, key string) error
}

// CreateOrderUseCase 创建订单用例
// 涉及:事务处理、并发控制、业务规则校验
type CreateOrderUseCase struct {
	orderRepo   order.Repository
	bookRepo    book.Repository
	stockLogs   stocklog.Repository
	txManager   shared.TxManager
	idempotency IdempotencyStore
	events      *EventNotifier
	shippingFee int64
	logger      *zap.Logger
	now         func() time.Time
}

// NewCreateOrderUseCase 创建下单用例,idempotency为nil时忽略幂等键
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	stockLogs stocklog.Repository,
	txManager shared.TxManager,
	idempotency IdempotencyStore,
	events *EventNotifier,
	cfg config.OrderConfig,
	logger *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:   orderRepo,
		bookRepo:    bookRepo,
		stockLogs:   stockLogs,
		txManager:   txManager,
		idempotency: idempotency,
		events:      events,
		shippingFee: cfg.ShippingFee,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	UserID          uint // 买家用户ID(从JWT中提取)
	Items           []CreateOrderItem
	ShippingAddress order.ShippingAddress
	PaymentMethod   string
	IdempotencyKey  string // 可选
}

// CreateOrderItem 订单明细项(客户端购物车)
type CreateOrderItem struct {
	BookID   uint
	Quantity int
}

// Execute 执行下单用例
//
// 防止超卖:
//  1. 事务内逐本读取图书并校验库存(返回友好的错误信息)
//  2. 条件扣减 UPDATE books SET stock = stock - ? WHERE id = ? AND stock >= ?
//     并发下单时后到的请求影响行数为0,返回库存不足
//  3. 任一明细失败整个事务回滚,订单、库存、库存日志全部不生效
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (resp *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateOrder",
		trace.WithAttributes(attribute.Int("order.user_id", int(req.UserID))))
	defer func() { tracing.EndSpan(span, err) }()

	metrics.InitMetrics()
	start := time.Now()
	replayed := false
	defer func() {
		if err != nil {
			metrics.IncCounterVec(metrics.OrdersFailedTotal, map[string]string{"reason": failureReason(err)})
			return
		}
		if replayed {
			return
		}
		metrics.IncCounter(metrics.OrdersCreatedTotal)
		metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())
	}()

	// 1. 参数校验(不访问数据库)
	if len(req.Items) == 0 {
		return nil, order.ErrEmptyOrderItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		return nil, err
	}
	items := mergeItems(req.Items)

	// 2. 幂等键
	if req.IdempotencyKey != "" && uc.idempotency != nil {
		existing, reserveErr := uc.reserve(ctx, req.UserID, req.IdempotencyKey)
		if reserveErr != nil {
			return nil, reserveErr
		}
		if existing != nil {
			// 重放已完成的请求,不计入新建订单
			replayed = true
			return existing, nil
		}
		defer func() {
			uc.settleIdempotency(ctx, req.UserID, req.IdempotencyKey, resp, err)
		}()
	}

	// 3. 事务内校验库存、扣减库存、创建订单
	var created *order.Order
	var sold int
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		now := uc.now()
		orderItems := make([]order.OrderItem, 0, len(items))
		logs := make([]*stocklog.StockLog, 0, len(items))

		for _, item := range items {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err
			}
			if !b.HasStock(item.Quantity) {
				return book.InsufficientStock(b.Title, b.Stock)
			}

			after, err := uc.bookRepo.DeductStock(txCtx, item.BookID, item.Quantity)
			if err != nil {
				return err
			}

			// 使用数据库中的当前价格,不信任客户端传递的价格
			orderItems = append(orderItems, order.OrderItem{
				BookID:   b.ID,
				Title:    b.Title,
				Image:    b.Image,
				Quantity: item.Quantity,
				Price:    b.Price,
			})
			logs = append(logs, stocklog.NewDeductLog(b.ID, item.Quantity, after+item.Quantity, 0))
			sold += item.Quantity
		}

		o, err := order.NewOrder(order.GenerateOrderNo(now), req.UserID, orderItems,
			req.ShippingAddress, req.PaymentMethod, uc.shippingFee, now)
		if err != nil {
			return err
		}
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		for _, l := range logs {
			l.OrderID = o.ID
		}
		if err := uc.stockLogs.BatchCreate(txCtx, logs); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. 事务提交后发布事件
	metrics.AddCounter(metrics.ItemsSoldTotal, float64(sold))
	uc.events.Notify(ctx, event.TopicOrderCreated, created, 0)
	uc.logger.Info("订单已创建",
		zap.String("order_no", created.OrderNo),
		zap.Uint("user_id", created.UserID),
		zap.Int64("total_price", created.TotalPrice),
	)

	return toOrderDTO(created), nil
}

// reserve 占用幂等键,键已存在时返回首次创建的订单
func (uc *CreateOrderUseCase) reserve(ctx context.Context, userID uint, key string) (*OrderDTO, error) {
	reserved, rec, err := uc.idempotency.Reserve(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	if reserved {
		return nil, nil
	}
	if rec.Status != redis.StatusDone {
		return nil, ErrRequestInProgress
	}

	o, err := uc.orderRepo.FindByID(ctx, rec.OrderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(o), nil
}

// settleIdempotency 成功时记录订单ID,失败时释放键允许客户端重试
func (uc *CreateOrderUseCase) settleIdempotency(ctx context.Context, userID uint, key string, resp *OrderDTO, err error) {
	var settleErr error
	if err != nil {
		settleErr = uc.idempotency.Release(ctx, userID, key)
	} else {
		settleErr = uc.idempotency.MarkDone(ctx, userID, key, resp.ID)
	}
	if settleErr != nil {
		uc.logger.Warn("幂等键更新失败", zap.String("key", key), zap.Error(settleErr))
	}
}

// mergeItems 合并同一本书的多个明细,并按图书ID排序
// 固定的加锁顺序避免两个订单交叉扣减时死锁
func mergeItems(items []CreateOrderItem) []CreateOrderItem {
	qty := make(map[uint]int, len(items))
	for _, item := range items {
		qty[item.BookID] += item.Quantity
	}

	merged := make([]CreateOrderItem, 0, len(qty))
	for id, q := range qty {
		merged = append(merged, CreateOrderItem{BookID: id, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].BookID < merged[j].BookID })
	return merged
}

func failureReason(err error) string {
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeInsufficientStock):
		return "stock"
	case apperrors.HasCode(err, apperrors.ErrCodeBookNotFound):
		return "not_found"
	default:
		return "other"
	}
}
