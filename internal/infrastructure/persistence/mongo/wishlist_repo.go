package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/bookmall/internal/domain/wishlist"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// wishlistDoc 收藏夹文档，_id即用户ID
type wishlistDoc struct {
	UserID    int64     `bson:"_id"`
	BookIDs   []int64   `bson:"book_ids"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// wishlistRepository 收藏夹仓储实现(MongoDB)
// $addToSet/$pull保证集合语义，无需先读后写
type wishlistRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewWishlistRepository 创建收藏夹仓储
func NewWishlistRepository(db *mongo.Database) wishlist.Repository {
	return &wishlistRepository{coll: db.Collection(wishlistCollection), now: time.Now}
}

// Get 获取收藏夹
func (r *wishlistRepository) Get(ctx context.Context, userID uint) (*wishlist.Wishlist, error) {
	var doc wishlistDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(userID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &wishlist.Wishlist{UserID: userID, BookIDs: []uint{}}, nil
		}
		return nil, mongoError(err, "查询收藏夹失败")
	}
	return toWishlist(&doc), nil
}

// Add 加入收藏
func (r *wishlistRepository) Add(ctx context.Context, userID, bookID uint) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": int64(userID)},
		bson.M{
			"$addToSet": bson.M{"book_ids": int64(bookID)},
			"$set":      bson.M{"updated_at": r.now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return mongoError(err, "加入收藏失败")
	}
	return nil
}

// Remove 移除收藏
func (r *wishlistRepository) Remove(ctx context.Context, userID, bookID uint) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": int64(userID)},
		bson.M{
			"$pull": bson.M{"book_ids": int64(bookID)},
			"$set":  bson.M{"updated_at": r.now()},
		},
	)
	if err != nil {
		return mongoError(err, "移除收藏失败")
	}
	return nil
}

// RemoveBookFromAll 从所有收藏夹移除某本书
func (r *wishlistRepository) RemoveBookFromAll(ctx context.Context, bookID uint) ([]uint, error) {
	filter := bson.M{"book_ids": int64(bookID)}

	// 1. 记录受影响的用户(补偿时需要)
	raw, err := r.coll.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, mongoError(err, "查询收藏用户失败")
	}
	userIDs := make([]uint, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case int64:
			userIDs = append(userIDs, uint(id))
		case int32:
			userIDs = append(userIDs, uint(id))
		}
	}
	if len(userIDs) == 0 {
		return userIDs, nil
	}

	// 2. 批量移除
	_, err = r.coll.UpdateMany(ctx, filter, bson.M{
		"$pull": bson.M{"book_ids": int64(bookID)},
		"$set":  bson.M{"updated_at": r.now()},
	})
	if err != nil {
		return nil, mongoError(err, "批量移除收藏失败")
	}
	return userIDs, nil
}

// Delete 删除用户收藏夹
func (r *wishlistRepository) Delete(ctx context.Context, userID uint) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": int64(userID)}); err != nil {
		return mongoError(err, "删除收藏夹失败")
	}
	return nil
}

// Save 整体写入收藏夹
func (r *wishlistRepository) Save(ctx context.Context, w *wishlist.Wishlist) error {
	doc := toDoc(w)
	doc.UpdatedAt = r.now()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return mongoError(err, "保存收藏夹失败")
	}
	return nil
}

func mongoError(err error, message string) error {
	return &apperrors.AppError{Code: apperrors.ErrCodeMongoError, Message: message, Err: err}
}

func toWishlist(doc *wishlistDoc) *wishlist.Wishlist {
	ids := make([]uint, len(doc.BookIDs))
	for i, id := range doc.BookIDs {
		ids[i] = uint(id)
	}
	return &wishlist.Wishlist{UserID: uint(doc.UserID), BookIDs: ids, UpdatedAt: doc.UpdatedAt}
}

func toDoc(w *wishlist.Wishlist) *wishlistDoc {
	ids := make([]int64, 0, len(w.BookIDs))
	seen := make(map[uint]struct{}, len(w.BookIDs))
	for _, id := range w.BookIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, int64(id))
	}
	return &wishlistDoc{UserID: int64(w.UserID), BookIDs: ids, UpdatedAt: w.UpdatedAt}
}
