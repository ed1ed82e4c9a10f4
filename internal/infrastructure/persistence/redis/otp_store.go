package redis

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// maxOTPAttempts 验证码最多尝试次数，超过后作废
const maxOTPAttempts = 5

// OTPStore 邮箱验证码存储
// Key: bookmall:otp:{purpose}:{email}，Hash字段 code / attempts
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore 创建验证码存储
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// Save 保存验证码，覆盖之前未使用的验证码
func (s *OTPStore) Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	k := key("otp", purpose, email)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, k)
	pipe.HSet(ctx, k, "code", code, "attempts", 0)
	pipe.Expire(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "保存验证码失败")
	}
	return nil
}

// Verify 校验验证码，成功后立即删除（一次性）
// 错误次数达到上限后验证码作废
func (s *OTPStore) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	k := key("otp", purpose, email)

	stored, err := s.client.HGet(ctx, k, "code").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "读取验证码失败")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		if err := s.client.Del(ctx, k).Err(); err != nil {
			return false, apperrors.Wrap(err, "删除验证码失败")
		}
		return true, nil
	}

	attempts, err := s.client.HIncrBy(ctx, k, "attempts", 1).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "记录验证码尝试次数失败")
	}
	if attempts >= maxOTPAttempts {
		s.client.Del(ctx, k)
	}
	return false, nil
}
