package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// 幂等记录状态
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// IdempotencyRecord 幂等键记录
type IdempotencyRecord struct {
	Status    string    `json:"status"`
	OrderID   uint      `json:"orderId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IdempotencyStore 下单幂等键存储
// Key: bookmall:idem:{user_id}:{idempotency_key}，按用户隔离
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore 创建幂等存储
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve 占用幂等键（SET NX）
// 返回reserved=false时，rec为已有记录（处理中或已完成）
func (s *IdempotencyStore) Reserve(ctx context.Context, userID uint, idemKey string) (reserved bool, rec *IdempotencyRecord, err error) {
	k := key("idem", userID, idemKey)

	val, err := json.Marshal(IdempotencyRecord{Status: StatusInProgress, CreatedAt: time.Now()})
	if err != nil {
		return false, nil, apperrors.Wrap(err, "序列化幂等记录失败")
	}

	ok, err := s.client.SetNX(ctx, k, val, s.ttl).Result()
	if err != nil {
		return false, nil, apperrors.Wrap(err, "占用幂等键失败")
	}
	if ok {
		return true, nil, nil
	}

	existing, err := s.get(ctx, k)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		// 记录恰好过期，重新占用
		return s.Reserve(ctx, userID, idemKey)
	}
	return false, existing, nil
}

// MarkDone 记录幂等键对应的订单
func (s *IdempotencyStore) MarkDone(ctx context.Context, userID uint, idemKey string, orderID uint) error {
	val, err := json.Marshal(IdempotencyRecord{Status: StatusDone, OrderID: orderID, CreatedAt: time.Now()})
	if err != nil {
		return apperrors.Wrap(err, "序列化幂等记录失败")
	}
	if err := s.client.Set(ctx, key("idem", userID, idemKey), val, s.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "更新幂等记录失败")
	}
	return nil
}

// Release 下单失败时释放幂等键，允许客户端重试
func (s *IdempotencyStore) Release(ctx context.Context, userID uint, idemKey string) error {
	if err := s.client.Del(ctx, key("idem", userID, idemKey)).Err(); err != nil {
		return apperrors.Wrap(err, "释放幂等键失败")
	}
	return nil
}

func (s *IdempotencyStore) get(ctx context.Context, k string) (*IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "读取幂等记录失败")
	}
	var rec IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.Wrap(err, "解析幂等记录失败")
	}
	return &rec, nil
}
