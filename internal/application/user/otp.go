package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/user"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

const otpDigits = 6

var (
	// ErrInvalidOTP 验证码错误或已过期
	ErrInvalidOTP = apperrors.New(apperrors.ErrCodeInvalidOTP, "验证码错误或已过期")
	// ErrPasswordMismatch 两次输入的密码不一致
	ErrPasswordMismatch = apperrors.New(apperrors.ErrCodeInvalidParams, "两次输入的密码不一致")
	// ErrEmailNotVerified 邮箱未注册或未验证
	ErrEmailNotVerified = apperrors.New(apperrors.ErrCodeUserNotFound, "邮箱未注册或未验证")
)

// OTPStore 验证码存储（Redis实现：redis.OTPStore）
type OTPStore interface {
	Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	Verify(ctx context.Context, purpose, email, code string) (bool, error)
}

// RequestOTPUseCase 发送邮箱验证码
// 1. 注册验证码：邮箱不能已注册
// 2. 重置密码验证码：邮箱必须是已验证的账号
// 3. 验证码通过事件交给通知服务发送邮件
type RequestOTPUseCase struct {
	userRepo  user.Repository
	otpStore  OTPStore
	publisher event.Publisher
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRequestOTPUseCase 创建验证码用例
func NewRequestOTPUseCase(
	userRepo user.Repository,
	otpStore OTPStore,
	publisher event.Publisher,
	ttl time.Duration,
	logger *zap.Logger,
) *RequestOTPUseCase {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RequestOTPUseCase{
		userRepo:  userRepo,
		otpStore:  otpStore,
		publisher: publisher,
		ttl:       ttl,
		logger:    logger,
	}
}

// Register 注册验证码
func (uc *RequestOTPUseCase) Register(ctx context.Context, email string) error {
	email = user.NormalizeEmail(email)
	if email == "" {
		return user.ErrInvalidEmail
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsVerified:
		return user.ErrEmailDuplicate
	case err != nil && !errors.Is(err, user.ErrUserNotFound):
		return err
	}

	return uc.issue(ctx, event.OTPPurposeRegister, email)
}

// ForgotPassword 重置密码验证码
func (uc *RequestOTPUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = user.NormalizeEmail(email)

	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrEmailNotVerified
		}
		return err
	}
	if !u.IsVerified {
		return ErrEmailNotVerified
	}

	return uc.issue(ctx, event.OTPPurposeResetPassword, email)
}

func (uc *RequestOTPUseCase) issue(ctx context.Context, purpose, email string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := uc.otpStore.Save(ctx, purpose, email, code, uc.ttl); err != nil {
		return err
	}

	// 投递失败需让用户重试
	if err := uc.publisher.Publish(ctx, event.TopicOTPRequested, event.OTPEvent{
		Email:      email,
		Code:       code,
		Purpose:    purpose,
		ExpiresIn:  int(uc.ttl.Seconds()),
		OccurredAt: time.Now(),
	}); err != nil {
		return apperrors.Wrap(err, "验证码发送失败，请稍后重试")
	}

	uc.logger.Info("验证码已发送", zap.String("email", email), zap.String("purpose", purpose))
	return nil
}

// verifyOTP 校验验证码，成功后验证码作废
func verifyOTP(ctx context.Context, store OTPStore, purpose, email, code string) error {
	if code == "" {
		return ErrInvalidOTP
	}
	ok, err := store.Verify(ctx, purpose, user.NormalizeEmail(email), code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}
	return nil
}

// generateOTP 6位数字验证码
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", apperrors.Wrap(err, "生成验证码失败")
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
