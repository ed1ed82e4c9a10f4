package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookmall/internal/domain/book"
)

// BookRepo 内存图书仓储
type BookRepo struct {
	store *Store
}

var _ book.Repository = (*BookRepo)(nil)

// NewBookRepo 创建内存图书仓储
func NewBookRepo(store *Store) *BookRepo {
	return &BookRepo{store: store}
}

// Seed 直接写入一本图书（测试准备数据），返回分配的ID
func (r *BookRepo) Seed(b *book.Book) uint {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if b.ID == 0 {
		b.ID = r.store.id()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	r.store.books[b.ID] = copyBook(b)
	return b.ID
}

// Get 读取图书（包含已下架），不存在返回nil
func (r *BookRepo) Get(id uint) *book.Book {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.books[id]
	if !ok {
		return nil
	}
	return copyBook(b)
}

// IsDeleted 是否已下架
func (r *BookRepo) IsDeleted(id uint) bool {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.deletedBooks[id]
}

func (r *BookRepo) Create(_ context.Context, b *book.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b.ID = r.store.id()
	r.store.books[b.ID] = copyBook(b)
	return nil
}

func (r *BookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.books[id]
	if !ok || r.store.deletedBooks[id] {
		return nil, book.ErrBookNotFound
	}
	return copyBook(b), nil
}

func (r *BookRepo) FindByIDs(_ context.Context, ids []uint) ([]*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.store.books[id]; ok && !r.store.deletedBooks[id] {
			out = append(out, copyBook(b))
		}
	}
	return out, nil
}

func (r *BookRepo) Update(_ context.Context, b *book.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.books[b.ID]
	if !ok || r.store.deletedBooks[b.ID] {
		return book.ErrBookNotFound
	}
	next := copyBook(b)
	next.Sold, next.Views, next.Rating, next.NumReviews = cur.Sold, cur.Views, cur.Rating, cur.NumReviews
	r.store.books[b.ID] = next
	return nil
}

func (r *BookRepo) Delete(_ context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.books[id]; !ok || r.store.deletedBooks[id] {
		return book.ErrBookNotFound
	}
	r.store.deletedBooks[id] = true
	return nil
}

func (r *BookRepo) Restore(_ context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.deletedBooks, id)
	return nil
}

func (r *BookRepo) active() []*book.Book {
	out := make([]*book.Book, 0, len(r.store.books))
	for id, b := range r.store.books {
		if !r.store.deletedBooks[id] {
			out = append(out, copyBook(b))
		}
	}
	sortNewest(out)
	return out
}

func sortNewest(books []*book.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		return books[i].ID > books[j].ID
	})
}

func (r *BookRepo) List(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.store.mu.Lock()
	all := r.active()
	r.store.mu.Unlock()

	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
	matched := make([]*book.Book, 0, len(all))
	for _, b := range all {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(b.Title), keyword) &&
			!strings.Contains(strings.ToLower(b.Author), keyword) {
			continue
		}
		if params.Category != "" && b.Category != params.Category {
			continue
		}
		if params.MinPrice > 0 && b.Price < params.MinPrice {
			continue
		}
		if params.MaxPrice > 0 && b.Price > params.MaxPrice {
			continue
		}
		if params.InStock && b.Stock <= 0 {
			continue
		}
		matched = append(matched, b)
	}

	switch params.Sort {
	case book.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case book.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case book.SortTopRated:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	case book.SortBestSelling:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Sold > matched[j].Sold })
	}

	total := int64(len(matched))
	page, size := params.Page, params.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(matched) {
		return []*book.Book{}, total, nil
	}
	end := min(start+size, len(matched))
	return matched[start:end], total, nil
}

func (r *BookRepo) ListShelf(_ context.Context, shelf book.Shelf, limit int) ([]*book.Book, error) {
	r.store.mu.Lock()
	all := r.active()
	r.store.mu.Unlock()

	switch shelf {
	case book.ShelfBestSellers:
		sort.SliceStable(all, func(i, j int) bool { return all[i].Sold > all[j].Sold })
	case book.ShelfTopViewed:
		sort.SliceStable(all, func(i, j int) bool { return all[i].Views > all[j].Views })
	case book.ShelfHotDeals:
		deals := all[:0]
		for _, b := range all {
			if b.OriginalPrice > b.Price {
				deals = append(deals, b)
			}
		}
		all = deals
		sort.SliceStable(all, func(i, j int) bool { return all[i].DiscountRate() > all[j].DiscountRate() })
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *BookRepo) ListRelated(_ context.Context, b *book.Book, limit int) ([]*book.Book, error) {
	r.store.mu.Lock()
	all := r.active()
	r.store.mu.Unlock()

	out := make([]*book.Book, 0, limit)
	for _, other := range all {
		if other.ID == b.ID || other.Category != b.Category {
			continue
		}
		out = append(out, other)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *BookRepo) Categories(_ context.Context) ([]string, error) {
	r.store.mu.Lock()
	all := r.active()
	r.store.mu.Unlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, b := range all {
		if !seen[b.Category] {
			seen[b.Category] = true
			out = append(out, b.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *BookRepo) IncrViews(_ context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.books[id]
	if !ok || r.store.deletedBooks[id] {
		return book.ErrBookNotFound
	}
	b.Views++
	return nil
}

// DeductStock 条件扣减，与 UPDATE ... WHERE stock >= ? 语义一致
func (r *BookRepo) DeductStock(_ context.Context, id uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, book.ErrInvalidQuantity
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.books[id]
	if !ok || r.store.deletedBooks[id] {
		return 0, book.ErrBookNotFound
	}
	if b.Stock < quantity {
		return 0, book.InsufficientStock(b.Title, b.Stock)
	}
	b.Stock -= quantity
	b.Sold += quantity
	return b.Stock, nil
}

func (r *BookRepo) RestoreStock(_ context.Context, id uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, book.ErrInvalidQuantity
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.books[id]
	if !ok {
		return 0, book.ErrBookNotFound
	}
	b.Stock += quantity
	b.Sold = max(b.Sold-quantity, 0)
	return b.Stock, nil
}

func (r *BookRepo) UpdateRating(_ context.Context, id uint, rating float64, numReviews int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Rating = rating
	b.NumReviews = numReviews
	return nil
}
