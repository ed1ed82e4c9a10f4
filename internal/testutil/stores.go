package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/xiebiao/bookmall/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// Fixture 一组共享Store的内存仓储
type Fixture struct {
	Store     *Store
	Tx        *TxManager
	Books     *BookRepo
	Orders    *OrderRepo
	Reviews   *ReviewRepo
	StockLogs *StockLogRepo
	Users     *UserRepo
	Wishlists *WishlistRepo
	Events    *EventRecorder
}

// NewFixture 创建测试夹具
func NewFixture() *Fixture {
	store := NewStore()
	return &Fixture{
		Store:     store,
		Tx:        NewTxManager(store),
		Books:     NewBookRepo(store),
		Orders:    NewOrderRepo(store),
		Reviews:   NewReviewRepo(store),
		StockLogs: NewStockLogRepo(store),
		Users:     NewUserRepo(store),
		Wishlists: NewWishlistRepo(store),
		Events:    &EventRecorder{},
	}
}

// =========================================
// 事件
// =========================================

// PublishedEvent 已发布的事件
type PublishedEvent struct {
	Topic   string
	Payload any
}

// EventRecorder 记录发布的事件
type EventRecorder struct {
	mu     sync.Mutex
	events []PublishedEvent
	// Err 非nil时Publish返回该错误
	Err error
}

func (r *EventRecorder) Publish(_ context.Context, topic string, payload any) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, PublishedEvent{Topic: topic, Payload: payload})
	return nil
}

// Topics 按发布顺序返回路由键
func (r *EventRecorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}

// Last 最后一个事件
func (r *EventRecorder) Last() (PublishedEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return PublishedEvent{}, false
	}
	return r.events[len(r.events)-1], true
}

// =========================================
// 缓存
// =========================================

// Cache 内存JSON缓存
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Hits    int
	Misses  int
}

// NewCache 创建内存缓存
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.entries[key]
	if !ok {
		c.Misses++
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *Cache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// Has 是否存在缓存项
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// =========================================
// 幂等键
// =========================================

// IdempotencyStore 内存幂等键存储
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*redis.IdempotencyRecord
}

// NewIdempotencyStore 创建内存幂等存储
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: make(map[string]*redis.IdempotencyRecord)}
}

func idemKey(userID uint, key string) string {
	raw, _ := json.Marshal([]any{userID, key})
	return string(raw)
}

func (s *IdempotencyStore) Reserve(_ context.Context, userID uint, key string) (bool, *redis.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idemKey(userID, key)
	if rec, ok := s.records[k]; ok {
		c := *rec
		return false, &c, nil
	}
	s.records[k] = &redis.IdempotencyRecord{Status: redis.StatusInProgress, CreatedAt: time.Now()}
	return true, nil, nil
}

func (s *IdempotencyStore) MarkDone(_ context.Context, userID uint, key string, orderID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[idemKey(userID, key)] = &redis.IdempotencyRecord{Status: redis.StatusDone, OrderID: orderID, CreatedAt: time.Now()}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, userID uint, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, idemKey(userID, key))
	return nil
}

// =========================================
// 验证码与会话
// =========================================

// OTPStore 内存验证码存储，验证成功后作废
type OTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewOTPStore 创建内存验证码存储
func NewOTPStore() *OTPStore {
	return &OTPStore{codes: make(map[string]string)}
}

func (s *OTPStore) Save(_ context.Context, purpose, email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[purpose+":"+email] = code
	return nil
}

func (s *OTPStore) Verify(_ context.Context, purpose, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := purpose + ":" + email
	if stored, ok := s.codes[k]; ok && stored == code {
		delete(s.codes, k)
		return true, nil
	}
	return false, nil
}

// Code 读取当前验证码
func (s *OTPStore) Code(purpose, email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[purpose+":"+email]
}

// SessionStore 内存会话与Token黑名单
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]any
	blacklist map[string]time.Duration
}

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]map[string]any),
		blacklist: make(map[string]time.Duration),
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, data map[string]any, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = data
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, userID uint) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.sessions[userID]
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = ttl
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blacklist[token]
	return ok, nil
}

// HasSession 是否存在会话
func (s *SessionStore) HasSession(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}
