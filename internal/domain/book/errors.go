package book

import (
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidAttributes 书名或作者为空
	ErrInvalidAttributes = apperrors.New(apperrors.ErrCodeInvalidParams, "书名和作者不能为空")

	// ErrInvalidCategory 分类为空
	ErrInvalidCategory = apperrors.New(apperrors.ErrCodeInvalidParams, "图书分类不能为空")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidOriginalPrice 原价低于售价
	ErrInvalidOriginalPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "原价不能低于售价")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
)

// InsufficientStock 构造带书名和剩余库存的库存不足错误
func InsufficientStock(title string, remaining int) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock, "图书《%s》库存不足，仅剩%d本", title, remaining)
}
