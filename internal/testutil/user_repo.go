package testutil

import (
	"context"
	"sort"
	"strings"

	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/domain/wishlist"
)

// UserRepo 内存用户仓储
type UserRepo struct {
	store *Store
}

var _ user.Repository = (*UserRepo)(nil)

// NewUserRepo 创建内存用户仓储
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// IsDeleted 是否已删除
func (r *UserRepo) IsDeleted(id uint) bool {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.deletedUsers[id]
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.users {
		if r.store.deletedUsers[id] {
			continue
		}
		if existing.Email == u.Email {
			return user.ErrEmailDuplicate
		}
		if existing.Username == u.Username {
			return user.ErrUsernameDuplicate
		}
	}
	u.ID = r.store.id()
	r.store.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepo) find(match func(*user.User) bool) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, u := range r.store.users {
		if !r.store.deletedUsers[id] && match(u) {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Username == username })
}

func (r *UserRepo) FindByGoogleID(_ context.Context, googleID string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return googleID != "" && u.GoogleID == googleID })
}

func (r *UserRepo) Update(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[u.ID]; !ok || r.store.deletedUsers[u.ID] {
		return user.ErrUserNotFound
	}
	r.store.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok || r.store.deletedUsers[id] {
		return user.ErrUserNotFound
	}
	r.store.deletedUsers[id] = true
	return nil
}

func (r *UserRepo) Restore(_ context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.deletedUsers, id)
	return nil
}

func (r *UserRepo) List(_ context.Context, page, pageSize int, keyword string) ([]*user.User, int64, error) {
	r.store.mu.Lock()
	keyword = strings.ToLower(keyword)
	matched := make([]*user.User, 0)
	for id, u := range r.store.users {
		if r.store.deletedUsers[id] {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(u.Name), keyword) &&
			!strings.Contains(u.Email, keyword) &&
			!strings.Contains(strings.ToLower(u.Username), keyword) {
			continue
		}
		matched = append(matched, copyUser(u))
	}
	r.store.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	page, pageSize = max(page, 1), max(pageSize, 1)
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []*user.User{}, total, nil
	}
	return matched[start:min(start+pageSize, len(matched))], total, nil
}

// =========================================
// 收藏夹
// =========================================

// WishlistRepo 内存收藏夹（文档存储，不参与事务）
type WishlistRepo struct {
	store *Store
	lists map[uint][]uint
	// FailRemoveAll 非nil时RemoveBookFromAll返回该错误
	FailRemoveAll error
	// FailDelete 非nil时Delete返回该错误
	FailDelete error
}

var _ wishlist.Repository = (*WishlistRepo)(nil)

// NewWishlistRepo 创建内存收藏夹仓储
func NewWishlistRepo(store *Store) *WishlistRepo {
	return &WishlistRepo{store: store, lists: make(map[uint][]uint)}
}

func (r *WishlistRepo) Get(_ context.Context, userID uint) (*wishlist.Wishlist, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := append([]uint{}, r.lists[userID]...)
	return &wishlist.Wishlist{UserID: userID, BookIDs: ids}, nil
}

func (r *WishlistRepo) Add(_ context.Context, userID, bookID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range r.lists[userID] {
		if id == bookID {
			return nil
		}
	}
	r.lists[userID] = append(r.lists[userID], bookID)
	return nil
}

func (r *WishlistRepo) Remove(_ context.Context, userID, bookID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.lists[userID] = without(r.lists[userID], bookID)
	return nil
}

func (r *WishlistRepo) RemoveBookFromAll(_ context.Context, bookID uint) ([]uint, error) {
	if r.FailRemoveAll != nil {
		return nil, r.FailRemoveAll
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var affected []uint
	for userID, ids := range r.lists {
		next := without(ids, bookID)
		if len(next) != len(ids) {
			affected = append(affected, userID)
			r.lists[userID] = next
		}
	}
	return affected, nil
}

func (r *WishlistRepo) Delete(_ context.Context, userID uint) error {
	if r.FailDelete != nil {
		return r.FailDelete
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.lists, userID)
	return nil
}

func (r *WishlistRepo) Save(_ context.Context, w *wishlist.Wishlist) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.lists[w.UserID] = append([]uint{}, w.BookIDs...)
	return nil
}

func without(ids []uint, target uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
