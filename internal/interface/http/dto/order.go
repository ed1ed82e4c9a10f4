package dto

import (
	apporder "github.com/xiebiao/bookmall/internal/application/order"
	"github.com/xiebiao/bookmall/internal/domain/order"
)

// IdempotencyKeyHeader 下单幂等键请求头
const IdempotencyKeyHeader = "Idempotency-Key"

// CreateOrderRequest 下单
// 金额由服务端根据图书快照计算，客户端传入的价格字段被忽略
type CreateOrderRequest struct {
	OrderItems      []CreateOrderItemRequest `json:"orderItems" binding:"required,min=1,max=50,dive"`
	ShippingAddress ShippingAddressRequest   `json:"shippingAddress"`
	PaymentMethod   string                   `json:"paymentMethod" binding:"omitempty,oneof=COD" example:"COD"`
}

// CreateOrderItemRequest 订单明细项
type CreateOrderItemRequest struct {
	Book     uint `json:"book" binding:"required,min=1" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}

// ShippingAddressRequest 收货地址
type ShippingAddressRequest struct {
	FullName string `json:"fullName" binding:"required,max=100" example:"Nguyen Van A"`
	Address  string `json:"address" binding:"required,max=200" example:"12 Le Loi"`
	City     string `json:"city" binding:"required,max=100" example:"Ha Noi"`
	Phone    string `json:"phone" binding:"required,vnphone" example:"0912345678"`
}

// ToRequest 转换为应用层请求
func (r *CreateOrderRequest) ToRequest(userID uint, idempotencyKey string) apporder.CreateOrderRequest {
	items := make([]apporder.CreateOrderItem, 0, len(r.OrderItems))
	for _, it := range r.OrderItems {
		items = append(items, apporder.CreateOrderItem{BookID: it.Book, Quantity: it.Quantity})
	}
	return apporder.CreateOrderRequest{
		UserID: userID,
		Items:  items,
		ShippingAddress: order.ShippingAddress{
			FullName: r.ShippingAddress.FullName,
			Address:  r.ShippingAddress.Address,
			City:     r.ShippingAddress.City,
			Phone:    r.ShippingAddress.Phone,
		},
		PaymentMethod:  r.PaymentMethod,
		IdempotencyKey: idempotencyKey,
	}
}

// CancelOrderRequest 取消订单（原因可选）
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500" example:"不想要了"`
}

// UpdateStatusRequest 管理员推进订单状态
type UpdateStatusRequest struct {
	Status int `json:"status" binding:"required,min=1,max=6" example:"2"`
}

// ListOrdersQuery 订单列表查询参数
type ListOrdersQuery struct {
	Page            int   `form:"page" binding:"omitempty,min=1"`
	PageSize        int   `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Status          int   `form:"status" binding:"omitempty,min=1,max=6"`
	CancelRequested *bool `form:"cancelRequested"`
	User            uint  `form:"user"`
}
