package review

import (
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

var (
	// ErrAlreadyReviewed 同一用户对同一本书只能评价一次
	ErrAlreadyReviewed = apperrors.New(apperrors.ErrCodeAlreadyReviewed, "您已评价过这本书")

	// ErrNotPurchased 没有已送达的订单包含该书
	ErrNotPurchased = apperrors.New(apperrors.ErrCodeReviewNotAllowed, "收到商品后才能评价")

	// ErrInvalidRating 评分超出范围
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidParams, "评分必须在1-5之间")

	// ErrEmptyComment 评价内容为空
	ErrEmptyComment = apperrors.New(apperrors.ErrCodeInvalidParams, "评价内容不能为空")
)
