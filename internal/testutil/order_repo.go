package testutil

import (
	"context"
	"sort"

	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/review"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
)

// OrderRepo 内存订单仓储
type OrderRepo struct {
	store *Store
}

var _ order.Repository = (*OrderRepo)(nil)

// NewOrderRepo 创建内存订单仓储
func NewOrderRepo(store *Store) *OrderRepo {
	return &OrderRepo{store: store}
}

// Seed 直接写入订单（测试准备数据）
func (r *OrderRepo) Seed(o *order.Order) uint {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if o.ID == 0 {
		o.ID = r.store.id()
	}
	r.store.orders[o.ID] = copyOrder(o)
	return o.ID
}

// Count 订单总数
func (r *OrderRepo) Count() int {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.orders)
}

func (r *OrderRepo) Create(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o.ID = r.store.id()
	for i := range o.Items {
		o.Items[i].ID = r.store.id()
		o.Items[i].OrderID = o.ID
	}
	r.store.orders[o.ID] = copyOrder(o)
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id uint) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

// UpdateStatus CAS：存储中的状态必须等于from
func (r *OrderRepo) UpdateStatus(_ context.Context, o *order.Order, from order.OrderStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	if cur.Status != from {
		return order.ErrStatusConflict
	}
	next := copyOrder(o)
	next.Items = cur.Items
	r.store.orders[o.ID] = next
	return nil
}

func (r *OrderRepo) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	return r.List(ctx, order.ListFilter{Page: page, PageSize: pageSize, UserID: userID})
}

func (r *OrderRepo) List(_ context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	r.store.mu.Lock()
	matched := make([]*order.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		if filter.UserID != 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != 0 && o.Status != filter.Status {
			continue
		}
		if filter.CancelRequested != nil && o.CancelRequested != *filter.CancelRequested {
			continue
		}
		matched = append(matched, copyOrder(o))
	}
	r.store.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	page, size := max(filter.Page, 1), filter.PageSize
	if size <= 0 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(matched) {
		return []*order.Order{}, total, nil
	}
	return matched[start:min(start+size, len(matched))], total, nil
}

func (r *OrderRepo) HasDeliveredBook(_ context.Context, userID, bookID uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.orders {
		if o.UserID == userID && o.Status == order.OrderStatusDelivered && o.ContainsBook(bookID) {
			return true, nil
		}
	}
	return false, nil
}

// =========================================
// 评价
// =========================================

// ReviewRepo 内存评价仓储
type ReviewRepo struct {
	store *Store
}

var _ review.Repository = (*ReviewRepo)(nil)

// NewReviewRepo 创建内存评价仓储
func NewReviewRepo(store *Store) *ReviewRepo {
	return &ReviewRepo{store: store}
}

// Create 模拟(user_id, book_id)唯一索引
func (r *ReviewRepo) Create(_ context.Context, rv *review.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.reviews {
		if existing.UserID == rv.UserID && existing.BookID == rv.BookID {
			return review.ErrAlreadyReviewed
		}
	}
	rv.ID = r.store.id()
	c := *rv
	r.store.reviews = append(r.store.reviews, &c)
	return nil
}

func (r *ReviewRepo) ListByBook(_ context.Context, bookID uint) ([]*review.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*review.Review, 0)
	for i := len(r.store.reviews) - 1; i >= 0; i-- {
		if rv := r.store.reviews[i]; rv.BookID == bookID {
			c := *rv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ReviewRepo) Stats(_ context.Context, bookID uint) (review.Stats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ratings []int
	for _, rv := range r.store.reviews {
		if rv.BookID == bookID {
			ratings = append(ratings, rv.Rating)
		}
	}
	return review.Aggregate(ratings), nil
}

// =========================================
// 库存日志
// =========================================

// StockLogRepo 内存库存日志仓储
type StockLogRepo struct {
	store *Store
}

var _ stocklog.Repository = (*StockLogRepo)(nil)

// NewStockLogRepo 创建内存库存日志仓储
func NewStockLogRepo(store *Store) *StockLogRepo {
	return &StockLogRepo{store: store}
}

func (r *StockLogRepo) BatchCreate(_ context.Context, logs []*stocklog.StockLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, l := range logs {
		l.ID = r.store.id()
		c := *l
		r.store.stockLogs = append(r.store.stockLogs, &c)
	}
	return nil
}

func (r *StockLogRepo) ListByBook(_ context.Context, bookID uint, limit int) ([]*stocklog.StockLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*stocklog.StockLog, 0)
	for i := len(r.store.stockLogs) - 1; i >= 0 && len(out) < limit; i-- {
		if l := r.store.stockLogs[i]; l.BookID == bookID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

// All 全部库存日志（写入顺序）
func (r *StockLogRepo) All() []stocklog.StockLog {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]stocklog.StockLog, len(r.store.stockLogs))
	for i, l := range r.store.stockLogs {
		out[i] = *l
	}
	return out
}
