package order

import (
	"strings"
	"time"
)

// OrderStatus 订单状态
// 数值编码(1-6)即存储和接口传输格式,不可调整
type OrderStatus int

const (
	OrderStatusNew       OrderStatus = 1 // 新订单
	OrderStatusConfirmed OrderStatus = 2 // 已确认
	OrderStatusPreparing OrderStatus = 3 // 备货中
	OrderStatusShipping  OrderStatus = 4 // 配送中
	OrderStatusDelivered OrderStatus = 5 // 已送达
	OrderStatusCancelled OrderStatus = 6 // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusNew:
		return "新订单"
	case OrderStatusConfirmed:
		return "已确认"
	case OrderStatusPreparing:
		return "备货中"
	case OrderStatusShipping:
		return "配送中"
	case OrderStatusDelivered:
		return "已送达"
	case OrderStatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// Valid 是否为已定义的状态值
func (s OrderStatus) Valid() bool {
	return s >= OrderStatusNew && s <= OrderStatusCancelled
}

// IsTerminal 终态不接受任何状态流转
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentMethodCOD 货到付款
const PaymentMethodCOD = "COD"

// DefaultCancelReason 用户未填写取消原因时使用
const DefaultCancelReason = "用户取消"

// Order 订单实体(聚合根)
// 1. Items是下单时的快照,与图书的后续改价、下架无关
// 2. 金额由服务端根据快照计算,不信任客户端
// 3. 订单从不删除,取消只是一个状态
type Order struct {
	ID              uint
	OrderNo         string // 订单号(业务主键,全局唯一)
	UserID          uint   // 买家用户ID
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	ItemsPrice      int64
	ShippingPrice   int64
	TotalPrice      int64
	Status          OrderStatus
	IsPaid          bool
	PaidAt          *time.Time
	ConfirmedAt     *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelRequested bool   // 用户申请取消,等待管理员处理
	CancelReason    string // 取消原因(直接取消或申请取消)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem 订单明细(下单时的图书快照)
type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Title    string
	Image    string
	Quantity int
	Price    int64 // 下单时的单价
}

// Subtotal 明细小计
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ShippingAddress 收货地址
type ShippingAddress struct {
	FullName string
	Address  string
	City     string
	Phone    string
}

// Validate 收货地址各字段均必填
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.FullName) == "" || strings.TrimSpace(a.Address) == "" ||
		strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.Phone) == "" {
		return ErrInvalidShippingAddress
	}
	return nil
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为NEW,未支付,金额由明细和运费计算
func NewOrder(orderNo string, userID uint, items []OrderItem, addr ShippingAddress, paymentMethod string, shippingFee int64, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		paymentMethod = PaymentMethodCOD
	}
	if paymentMethod != PaymentMethodCOD {
		return nil, ErrUnsupportedPaymentMethod
	}

	o := &Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		ShippingPrice:   shippingFee,
		Status:          OrderStatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.ItemsPrice = o.CalculateItemsPrice()
	o.TotalPrice = o.ItemsPrice + o.ShippingPrice
	return o, nil
}

// CalculateItemsPrice 根据明细快照计算商品金额
func (o *Order) CalculateItemsPrice() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

// ContainsBook 订单是否包含指定图书
func (o *Order) ContainsBook(bookID uint) bool {
	for _, item := range o.Items {
		if item.BookID == bookID {
			return true
		}
	}
	return false
}

// AdvanceByAdmin 管理员推进订单状态
// 只允许NEW→CONFIRMED→PREPARING→SHIPPING逐级推进
func (o *Order) AdvanceByAdmin(target OrderStatus, now time.Time) error {
	if err := o.checkTransition(ActorAdmin, target); err != nil {
		return err
	}

	o.Status = target
	if target == OrderStatusConfirmed {
		o.ConfirmedAt = &now
	}
	o.UpdatedAt = now
	return nil
}

// CancelOutcome 用户取消的处理结果
type CancelOutcome int

const (
	// CancelDirect 直接取消,需要回补库存
	CancelDirect CancelOutcome = iota + 1
	// CancelRequested 仅登记取消申请,库存不变
	CancelRequested
)

// CancelByOwner 用户取消订单
// 1. NEW,或CONFIRMED且未超过取消窗口:直接取消
// 2. 超过窗口的CONFIRMED、PREPARING、SHIPPING:登记取消申请,等待管理员处理
// 3. 终态:拒绝
func (o *Order) CancelByOwner(now time.Time, window time.Duration, reason string) (CancelOutcome, error) {
	if o.Status.IsTerminal() {
		return 0, ErrInvalidStatusTransition
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}

	if o.canSelfCancel(now, window) {
		if err := o.checkTransition(ActorOwner, OrderStatusCancelled); err != nil {
			return 0, err
		}
		o.Status = OrderStatusCancelled
		o.CancelReason = reason
		o.CancelRequested = false
		o.CancelledAt = &now
		o.UpdatedAt = now
		return CancelDirect, nil
	}

	if o.CancelRequested {
		return 0, ErrCancelAlreadyRequested
	}
	o.CancelRequested = true
	o.CancelReason = reason
	o.UpdatedAt = now
	return CancelRequested, nil
}

func (o *Order) canSelfCancel(now time.Time, window time.Duration) bool {
	switch o.Status {
	case OrderStatusNew:
		return true
	case OrderStatusConfirmed:
		return now.Sub(o.CreatedAt) <= window
	default:
		return false
	}
}

// ConfirmReceived 用户确认收货
// 仅SHIPPING可确认;货到付款在此时结算
func (o *Order) ConfirmReceived(now time.Time) error {
	if err := o.checkTransition(ActorOwner, OrderStatusDelivered); err != nil {
		return err
	}

	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	if !o.IsPaid {
		o.IsPaid = true
		o.PaidAt = &now
	}
	o.UpdatedAt = now
	return nil
}

func (o *Order) checkTransition(actor Actor, target OrderStatus) error {
	if !CanTransition(o.Status, actor, target) {
		return ErrInvalidStatusTransition
	}
	return nil
}
