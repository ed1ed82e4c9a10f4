package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/bookmall/internal/domain/wishlist"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

func TestToDoc_Dedup(t *testing.T) {
	doc := toDoc(&wishlist.Wishlist{UserID: 3, BookIDs: []uint{1, 2, 1, 3}})
	assert.Equal(t, int64(3), doc.UserID)
	assert.Equal(t, []int64{1, 2, 3}, doc.BookIDs)

	w := toWishlist(doc)
	assert.Equal(t, []uint{1, 2, 3}, w.BookIDs)
	assert.True(t, w.Contains(2))
	assert.False(t, w.Contains(9))
}

func TestMongoError(t *testing.T) {
	err := mongoError(assert.AnError, "查询收藏夹失败")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMongoError))
	assert.ErrorIs(t, err, assert.AnError)
}

// 需要本地MongoDB：docker run -p 27017:27017 mongo:7
// 未设置BOOKMALL_TEST_MONGO_URI时跳过
func testRepo(t *testing.T) wishlist.Repository {
	t.Helper()
	uri := os.Getenv("BOOKMALL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("未设置BOOKMALL_TEST_MONGO_URI，跳过MongoDB测试")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("bookmall_test")
	require.NoError(t, ensureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return NewWishlistRepository(db)
}

func TestWishlistRepository(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	t.Run("空收藏夹", func(t *testing.T) {
		w, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, w.BookIDs)
	})

	t.Run("重复添加不产生重复元素", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, 1, 10))
		require.NoError(t, repo.Add(ctx, 1, 10))
		require.NoError(t, repo.Add(ctx, 1, 11))

		w, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{10, 11}, w.BookIDs)
	})

	t.Run("移除", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, 1, 10))
		w, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{11}, w.BookIDs)
	})

	t.Run("下架图书从所有收藏夹移除", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, 2, 11))
		users, err := repo.RemoveBookFromAll(ctx, 11)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{1, 2}, users)

		w, _ := repo.Get(ctx, 2)
		assert.Empty(t, w.BookIDs)
	})

	t.Run("删除与恢复", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &wishlist.Wishlist{UserID: 5, BookIDs: []uint{1, 2}}))
		require.NoError(t, repo.Delete(ctx, 5))
		w, _ := repo.Get(ctx, 5)
		assert.Empty(t, w.BookIDs)
	})
}
