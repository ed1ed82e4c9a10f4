package order

import (
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrInvalidStatus 未定义的状态值
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的订单状态")

	// ErrStatusConflict 状态已被并发修改(CAS失败)
	ErrStatusConflict = apperrors.New(apperrors.ErrCodeOrderStatusConflict, "订单状态已变更，请刷新后重试")

	// ErrCancelAlreadyRequested 已提交过取消申请
	ErrCancelAlreadyRequested = apperrors.New(apperrors.ErrCodeBusinessError, "已提交取消申请，请等待处理")

	// ErrEmptyOrderItems 订单明细为空
	ErrEmptyOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidShippingAddress 收货地址不完整
	ErrInvalidShippingAddress = apperrors.New(apperrors.ErrCodeInvalidParams, "收货地址不完整")

	// ErrUnsupportedPaymentMethod 不支持的支付方式
	ErrUnsupportedPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "仅支持货到付款")

	// ErrNotOrderOwner 非订单所有者
	ErrNotOrderOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作该订单")
)
