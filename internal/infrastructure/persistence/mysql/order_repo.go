package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookmall/internal/domain/order"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// statusColumns 状态流转时写入的列
var statusColumns = []string{
	"status", "is_paid", "paid_at", "confirmed_at", "delivered_at", "cancelled_at",
	"cancel_requested", "cancel_reason", "updated_at",
}

// Create 创建订单
// GORM会自动保存关联的Items,应在事务中调用
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找订单
// Preload("Items")会执行:
// 1. SELECT * FROM orders WHERE id = ?
// 2. SELECT * FROM order_items WHERE order_id IN (?)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	if err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// UpdateStatus 以from为前置条件更新(CAS)
// UPDATE orders SET status = ?, ... WHERE id = ? AND status = ?
func (r *orderRepository) UpdateStatus(ctx context.Context, o *order.Order, from order.OrderStatus) error {
	model := toOrderModel(o)

	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ? AND status = ?", o.ID, int(from)).
		Select(statusColumns).
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrStatusConflict
	}
	return nil
}

// ListByUserID 查询用户的订单列表
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	return r.List(ctx, order.ListFilter{Page: page, PageSize: pageSize, UserID: userID})
}

// List 条件查询订单
func (r *orderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	query := getDB(ctx, r.db).Model(&OrderModel{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != 0 {
		query = query.Where("status = ?", int(filter.Status))
	}
	if filter.CancelRequested != nil {
		query = query.Where("cancel_requested = ?", *filter.CancelRequested)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	limit, offset := paginate(filter.Page, filter.PageSize)
	err := query.Preload("Items").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// HasDeliveredBook 用户是否有包含该书的已送达订单
func (r *orderRepository) HasDeliveredBook(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.book_id = ?",
			userID, int(order.OrderStatusDelivered), bookID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询购买记录失败")
	}
	return count > 0, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			Title:    item.Title,
			Image:    item.Image,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &OrderModel{
		ID:      o.ID,
		OrderNo: o.OrderNo,
		UserID:  o.UserID,
		Shipping: ShippingAddressCol{
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
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		ConfirmedAt:     o.ConfirmedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelRequested: o.CancelRequested,
		CancelReason:    o.CancelReason,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.OrderItem{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			Title:    item.Title,
			Image:    item.Image,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &order.Order{
		ID:      model.ID,
		OrderNo: model.OrderNo,
		UserID:  model.UserID,
		Items:   items,
		ShippingAddress: order.ShippingAddress{
			FullName: model.Shipping.FullName,
			Address:  model.Shipping.Address,
			City:     model.Shipping.City,
			Phone:    model.Shipping.Phone,
		},
		PaymentMethod:   model.PaymentMethod,
		ItemsPrice:      model.ItemsPrice,
		ShippingPrice:   model.ShippingPrice,
		TotalPrice:      model.TotalPrice,
		Status:          order.OrderStatus(model.Status),
		IsPaid:          model.IsPaid,
		PaidAt:          model.PaidAt,
		ConfirmedAt:     model.ConfirmedAt,
		DeliveredAt:     model.DeliveredAt,
		CancelledAt:     model.CancelledAt,
		CancelRequested: model.CancelRequested,
		CancelReason:    model.CancelReason,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
