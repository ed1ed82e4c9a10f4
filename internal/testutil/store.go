// Package testutil 应用层测试使用的内存仓储
//
// 所有仓储共享同一个Store，TxManager在事务开始时做快照，fn返回error时整体恢复，
// 行为与MySQL事务一致：要么全部生效，要么全部回滚。
package testutil

import (
	"context"
	"sync"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/review"
	"github.com/xiebiao/bookmall/internal/domain/shared"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	"github.com/xiebiao/bookmall/internal/domain/user"
)

// Store 内存数据
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	books        map[uint]*book.Book
	deletedBooks map[uint]bool
	orders       map[uint]*order.Order
	reviews      []*review.Review
	stockLogs    []*stocklog.StockLog
	users        map[uint]*user.User
	deletedUsers map[uint]bool

	nextID uint
}

// NewStore 创建空的内存数据
func NewStore() *Store {
	return &Store{
		books:        make(map[uint]*book.Book),
		deletedBooks: make(map[uint]bool),
		orders:       make(map[uint]*order.Order),
		users:        make(map[uint]*user.User),
		deletedUsers: make(map[uint]bool),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

type snapshot struct {
	books        map[uint]*book.Book
	deletedBooks map[uint]bool
	orders       map[uint]*order.Order
	reviews      []*review.Review
	stockLogs    []*stocklog.StockLog
	users        map[uint]*user.User
	deletedUsers map[uint]bool
	nextID       uint
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		books:        make(map[uint]*book.Book, len(s.books)),
		deletedBooks: make(map[uint]bool, len(s.deletedBooks)),
		orders:       make(map[uint]*order.Order, len(s.orders)),
		reviews:      append([]*review.Review(nil), s.reviews...),
		stockLogs:    append([]*stocklog.StockLog(nil), s.stockLogs...),
		users:        make(map[uint]*user.User, len(s.users)),
		deletedUsers: make(map[uint]bool, len(s.deletedUsers)),
		nextID:       s.nextID,
	}
	for k, v := range s.books {
		snap.books[k] = copyBook(v)
	}
	for k, v := range s.deletedBooks {
		snap.deletedBooks[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	for k, v := range s.users {
		snap.users[k] = copyUser(v)
	}
	for k, v := range s.deletedUsers {
		snap.deletedUsers[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = snap.books
	s.deletedBooks = snap.deletedBooks
	s.orders = snap.orders
	s.reviews = snap.reviews
	s.stockLogs = snap.stockLogs
	s.users = snap.users
	s.deletedUsers = snap.deletedUsers
	s.nextID = snap.nextID
}

// =========================================
// 事务
// =========================================

type txKey struct{}

// TxManager 内存事务，事务之间串行执行
type TxManager struct {
	store *Store
	// Commits 成功提交的事务数
	Commits int
	// Rollbacks 回滚的事务数
	Rollbacks int
}

var _ shared.TxManager = (*TxManager)(nil)

// NewTxManager 创建内存事务管理器
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Transaction 嵌套调用复用外层事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// =========================================
// 深拷贝（仓储返回副本，与数据库读取行为一致）
// =========================================

func copyBook(b *book.Book) *book.Book {
	c := *b
	return &c
}

func copyOrder(o *order.Order) *order.Order {
	c := *o
	c.Items = append([]order.OrderItem(nil), o.Items...)
	return &c
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}
