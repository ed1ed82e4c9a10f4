package user

import (
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound      = apperrors.ErrUserNotFound
	ErrEmailDuplicate    = apperrors.ErrEmailDuplicate
	ErrUsernameDuplicate = apperrors.ErrUsernameDuplicate
	ErrWeakPassword      = apperrors.ErrWeakPassword
	ErrInvalidPassword   = apperrors.ErrInvalidPassword

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrInvalidUsername 用户名格式不正确
	ErrInvalidUsername = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名需为3-30位字母、数字、下划线或点")

	// ErrInvalidName 姓名长度不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为1-50个字符")

	// ErrWrongOldPassword 原密码错误（修改密码时）
	ErrWrongOldPassword = apperrors.New(apperrors.ErrCodeInvalidParams, "原密码错误")

	// ErrCannotDeleteAdmin 管理员账号不可删除
	ErrCannotDeleteAdmin = apperrors.New(apperrors.ErrCodeCannotDeleteAdmin, "不能删除管理员账号")
)
