package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/review"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/testutil"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

type reviewFixture struct {
	fx     *testutil.Fixture
	uc     *CreateReviewUseCase
	bookID uint
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	fx := testutil.NewFixture()
	bookID := fx.Books.Seed(&book.Book{Title: "Book", Author: "A", Category: "Fiction", Price: 1000, Stock: 10})
	return &reviewFixture{
		fx:     fx,
		uc:     NewCreateReviewUseCase(fx.Reviews, fx.Orders, fx.Books, fx.Users, fx.Tx, zap.NewNop()),
		bookID: bookID,
	}
}

func (f *reviewFixture) newUser(t *testing.T, name string) uint {
	t.Helper()
	u := user.NewUser(name+"@example.com", "hash", name, name)
	require.NoError(t, f.fx.Users.Create(context.Background(), u))
	return u.ID
}

func (f *reviewFixture) seedOrder(userID uint, status order.OrderStatus) {
	f.fx.Orders.Seed(&order.Order{
		UserID:    userID,
		Status:    status,
		Items:     []order.OrderItem{{BookID: f.bookID, Quantity: 1, Price: 1000}},
		CreatedAt: time.Now(),
	})
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("未收货不能评价", func(t *testing.T) {
		f := newReviewFixture(t)
		uid := f.newUser(t, "alice")
		f.seedOrder(uid, order.OrderStatusShipping)

		_, err := f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: uid, Rating: 5, Comment: "好书"})
		require.ErrorIs(t, err, review.ErrNotPurchased)
		assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
		assert.Zero(t, f.fx.Books.Get(f.bookID).NumReviews)
	})

	t.Run("评价后重算评分", func(t *testing.T) {
		f := newReviewFixture(t)
		alice := f.newUser(t, "alice")
		bob := f.newUser(t, "bob")
		f.seedOrder(alice, order.OrderStatusDelivered)
		f.seedOrder(bob, order.OrderStatusDelivered)

		resp, err := f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: alice, Rating: 5, Comment: "好书"})
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.Review.Name)
		assert.Equal(t, 1, resp.NumReviews)

		resp, err = f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: bob, Rating: 4, Comment: "不错"})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.NumReviews)
		assert.InDelta(t, 4.5, resp.Rating, 1e-9)

		b := f.fx.Books.Get(f.bookID)
		assert.Equal(t, 2, b.NumReviews)
		assert.InDelta(t, 4.5, b.Rating, 1e-9)
		t.Logf("✓ 评分: %.1f (%d条)", b.Rating, b.NumReviews)
	})

	t.Run("重复评价被拒绝且聚合不变", func(t *testing.T) {
		f := newReviewFixture(t)
		uid := f.newUser(t, "alice")
		f.seedOrder(uid, order.OrderStatusDelivered)

		_, err := f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: uid, Rating: 5, Comment: "好书"})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: uid, Rating: 1, Comment: "改主意了"})
		require.ErrorIs(t, err, review.ErrAlreadyReviewed)
		assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())

		b := f.fx.Books.Get(f.bookID)
		assert.Equal(t, 1, b.NumReviews)
		assert.InDelta(t, 5.0, b.Rating, 1e-9)
	})

	t.Run("并发重复提交只有一条成功", func(t *testing.T) {
		f := newReviewFixture(t)
		uid := f.newUser(t, "alice")
		f.seedOrder(uid, order.OrderStatusDelivered)

		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: uid, Rating: 3, Comment: "一般"})
			}(i)
		}
		wg.Wait()

		success := 0
		for _, err := range errs {
			if err == nil {
				success++
			} else {
				assert.ErrorIs(t, err, review.ErrAlreadyReviewed)
			}
		}
		assert.Equal(t, 1, success)
		assert.Equal(t, 1, f.fx.Books.Get(f.bookID).NumReviews)
	})

	t.Run("评分超出范围", func(t *testing.T) {
		f := newReviewFixture(t)
		uid := f.newUser(t, "alice")
		f.seedOrder(uid, order.OrderStatusDelivered)

		_, err := f.uc.Execute(ctx, CreateReviewRequest{BookID: f.bookID, UserID: uid, Rating: 6, Comment: "好书"})
		assert.ErrorIs(t, err, review.ErrInvalidRating)
	})

	t.Run("图书不存在", func(t *testing.T) {
		f := newReviewFixture(t)
		uid := f.newUser(t, "alice")

		_, err := f.uc.Execute(ctx, CreateReviewRequest{BookID: 999, UserID: uid, Rating: 5, Comment: "好书"})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}
