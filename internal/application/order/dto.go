package order

import (
	"time"

	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/pkg/response"
)

// =========================================
// 应用层DTO
// =========================================

// OrderDTO 订单详情
type OrderDTO struct {
	ID              uint               `json:"id"`
	OrderNo         string             `json:"orderNo"`
	UserID          uint               `json:"user"`
	OrderItems      []OrderItemDTO     `json:"orderItems"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	ItemsPrice      int64              `json:"itemsPrice"`
	ShippingPrice   int64              `json:"shippingPrice"`
	TotalPrice      int64              `json:"totalPrice"`
	Status          int                `json:"status"`
	StatusText      string             `json:"statusText"`
	IsPaid          bool               `json:"isPaid"`
	PaidAt          *time.Time         `json:"paidAt,omitempty"`
	ConfirmedAt     *time.Time         `json:"confirmedAt,omitempty"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time         `json:"cancelledAt,omitempty"`
	CancelRequested bool               `json:"cancelRequested"`
	CancelReason    string             `json:"cancelReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// OrderItemDTO 订单明细
type OrderItemDTO struct {
	BookID   uint   `json:"book"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// ShippingAddressDTO 收货地址
type ShippingAddressDTO struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
}

// OrderListResponse 订单分页列表
type OrderListResponse struct {
	Orders      []*OrderDTO `json:"orders"`
	Page        int         `json:"page"`
	Pages       int         `json:"pages"`
	TotalOrders int64       `json:"totalOrders"`
}

func toOrderDTO(o *order.Order) *OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			BookID:   item.BookID,
			Title:    item.Title,
			Image:    item.Image,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &OrderDTO{
		ID:         o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		OrderItems: items,
		ShippingAddress: ShippingAddressDTO{
			FullName: o.ShippingAddress.FullName,
			Address:  o.ShippingAddress.Address,
			City:     o.ShippingAddress.City,
			Phone:    o.ShippingAddress.Phone,
		},
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		Status:          int(o.Status),
		StatusText:      o.Status.String(),
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		ConfirmedAt:     o.ConfirmedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelRequested: o.CancelRequested,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderList(orders []*order.Order, total int64, page, pageSize int) *OrderListResponse {
	dtos := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = toOrderDTO(o)
	}
	return &OrderListResponse{
		Orders:      dtos,
		Page:        page,
		Pages:       response.TotalPages(total, pageSize),
		TotalOrders: total,
	}
}
