package order

import (
	"context"

	"github.com/xiebiao/bookmall/internal/domain/order"
)

// GetOrderUseCase 订单详情(买家本人或管理员)
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 查询订单
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, userID uint, isAdmin bool) (*OrderDTO, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.IsOwnedBy(userID) {
		return nil, order.ErrNotOrderOwner
	}
	return toOrderDTO(o), nil
}

// ListOrdersUseCase 订单列表
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 订单列表查询条件
type ListOrdersRequest struct {
	Page            int
	PageSize        int
	Status          int   // 0表示不限
	CancelRequested *bool // 仅管理员
	UserID          uint  // 0表示所有用户(仅管理员)
}

// MyOrders 当前用户的订单(最新在前)
func (uc *ListOrdersUseCase) MyOrders(ctx context.Context, userID uint, page, pageSize int) (*OrderListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return toOrderList(orders, total, page, pageSize), nil
}

// AdminList 管理员订单列表,支持按状态和取消申请过滤
func (uc *ListOrdersUseCase) AdminList(ctx context.Context, req ListOrdersRequest) (*OrderListResponse, error) {
	status := order.OrderStatus(req.Status)
	if req.Status != 0 && !status.Valid() {
		return nil, order.ErrInvalidStatus
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	orders, total, err := uc.orderRepo.List(ctx, order.ListFilter{
		Page:            page,
		PageSize:        pageSize,
		Status:          status,
		CancelRequested: req.CancelRequested,
		UserID:          req.UserID,
	})
	if err != nil {
		return nil, err
	}
	return toOrderList(orders, total, page, pageSize), nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
