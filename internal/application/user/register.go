package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. 先校验两次密码和邮箱验证码，再调用领域服务创建账号
// 2. 格式、查重等业务规则由领域服务负责
type RegisterUseCase struct {
	userService user.Service
	otpStore    OTPStore
	logger      *zap.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, otpStore OTPStore, logger *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		otpStore:    otpStore,
		logger:      logger,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Username        string
	OTP             string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	// 1. 两次密码一致
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	// 2. 校验验证码（一次性）
	if err := verifyOTP(ctx, uc.otpStore, event.OTPPurposeRegister, req.Email, req.OTP); err != nil {
		return nil, err
	}

	// 3. 领域服务执行注册
	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("用户注册成功", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return ToUserDTO(u), nil
}
