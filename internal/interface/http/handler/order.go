package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookmall/internal/application/order"
	"github.com/xiebiao/bookmall/internal/interface/http/dto"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/pkg/response"
)

const maxIdempotencyKeyLength = 64

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createUseCase   *apporder.CreateOrderUseCase
	cancelUseCase   *apporder.CancelOrderUseCase
	receivedUseCase *apporder.ConfirmReceivedUseCase
	statusUseCase   *apporder.UpdateStatusUseCase
	getUseCase      *apporder.GetOrderUseCase
	listUseCase     *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
	receivedUseCase *apporder.ConfirmReceivedUseCase,
	statusUseCase *apporder.UpdateStatusUseCase,
	getUseCase *apporder.GetOrderUseCase,
	listUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase:   createUseCase,
		cancelUseCase:   cancelUseCase,
		receivedUseCase: receivedUseCase,
		statusUseCase:   statusUseCase,
		getUseCase:      getUseCase,
		listUseCase:     listUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  货到付款；金额由服务端计算；可携带Idempotency-Key防止重复提交
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string                 false "幂等键"
// @Param        request         body   dto.CreateOrderRequest true  "订单信息"
// @Success      201 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	idemKey := strings.TrimSpace(c.GetHeader(dto.IdempotencyKeyHeader))
	if len(idemKey) > maxIdempotencyKeyLength {
		response.ErrorWithCode(c, 40900, "参数错误: Idempotency-Key过长")
		return
	}

	// 2. 调用应用层用例
	result, err := h.createUseCase.Execute(c.Request.Context(), req.ToRequest(middleware.MustGetUserID(c), idemKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// MyOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int false "页码"
// @Param        pageSize query int false "每页数量"
// @Success      200 {object} response.Response{data=apporder.OrderListResponse}
// @Router       /api/orders/my-orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	var q dto.ListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.listUseCase.MyOrders(c.Request.Context(), middleware.MustGetUserID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 订单详情（本人或管理员）
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      403 {object} response.Response "不是订单所有者"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  下单30分钟内且未发货时直接取消并回补库存；超过30分钟提交取消申请
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true  "订单ID"
// @Param        request body dto.CancelOrderRequest false "取消原因"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "订单状态不允许取消"
// @Failure      403 {object} response.Response "不是订单所有者"
// @Router       /api/orders/{id}/cancel [put]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	// 请求体可选
	var req dto.CancelOrderRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), apporder.CancelOrderRequest{
		OrderID: id,
		UserID:  middleware.MustGetUserID(c),
		Reason:  req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ConfirmReceived 确认收货
// @Summary      确认收货
// @Description  仅已发货的订单，确认后标记已送达并完成货到付款结算
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "订单尚未发货"
// @Router       /api/orders/{id}/received [put]
func (h *OrderHandler) ConfirmReceived(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.receivedUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus 管理员推进订单状态
// @Summary      更新订单状态
// @Tags         订单管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "订单ID"
// @Param        request body dto.UpdateStatusRequest true "目标状态(1-6)"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "状态不合法或并发修改"
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.statusUseCase.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		OrderID: id,
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 管理员订单列表
// @Summary      订单列表
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Param        page            query int  false "页码"
// @Param        pageSize        query int  false "每页数量"
// @Param        status          query int  false "状态(1-6)"
// @Param        cancelRequested query bool false "仅看申请取消的订单"
// @Param        user            query int  false "用户ID"
// @Success      200 {object} response.Response{data=apporder.OrderListResponse}
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q dto.ListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.listUseCase.AdminList(c.Request.Context(), apporder.ListOrdersRequest{
		Page:            q.Page,
		PageSize:        q.PageSize,
		Status:          q.Status,
		CancelRequested: q.CancelRequested,
		UserID:          q.User,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
