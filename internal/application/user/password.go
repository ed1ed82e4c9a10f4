package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/user"
)

// PasswordUseCase 重置密码（验证码）与修改密码（原密码）
type PasswordUseCase struct {
	userService user.Service
	otpStore    OTPStore
	logger      *zap.Logger
}

// NewPasswordUseCase 创建密码用例
func NewPasswordUseCase(userService user.Service, otpStore OTPStore, logger *zap.Logger) *PasswordUseCase {
	return &PasswordUseCase{
		userService: userService,
		otpStore:    otpStore,
		logger:      logger,
	}
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email           string
	OTP             string
	NewPassword     string
	ConfirmPassword string
}

// Reset 通过邮箱验证码重置密码
func (uc *PasswordUseCase) Reset(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := verifyOTP(ctx, uc.otpStore, event.OTPPurposeResetPassword, req.Email, req.OTP); err != nil {
		return err
	}
	if err := uc.userService.ResetPassword(ctx, req.Email, req.NewPassword); err != nil {
		return err
	}

	uc.logger.Info("密码已重置", zap.String("email", user.NormalizeEmail(req.Email)))
	return nil
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	UserID          uint
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// Change 修改密码，Google账号首次设置密码时无需原密码
func (uc *PasswordUseCase) Change(ctx context.Context, req ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := uc.userService.ChangePassword(ctx, req.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	uc.logger.Info("密码已修改", zap.Uint("user_id", req.UserID))
	return nil
}
