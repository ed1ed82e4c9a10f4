package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细),订单和明细必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus 以from为前置条件更新状态相关字段(CAS)
	// 状态已被他人修改时返回ErrStatusConflict
	UpdateStatus(ctx context.Context, order *Order, from OrderStatus) error

	// ListByUserID 查询用户的订单列表(按创建时间倒序)
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// List 管理员订单列表
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)

	// HasDeliveredBook 用户是否有包含该图书且已送达的订单
	HasDeliveredBook(ctx context.Context, userID, bookID uint) (bool, error)
}

// ListFilter 管理员订单查询条件
type ListFilter struct {
	Page            int
	PageSize        int
	Status          OrderStatus // 0表示不限
	CancelRequested *bool       // nil表示不限
	UserID          uint        // 0表示不限
}
