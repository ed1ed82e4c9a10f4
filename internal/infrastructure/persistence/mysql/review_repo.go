package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookmall/internal/domain/review"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// reviewRepository 评价仓储实现(MySQL)
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 新增评价
// 重复评价由uk_review_user_book唯一索引拦截
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:    rv.BookID,
		UserID:    rv.UserID,
		Name:      rv.Name,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrAlreadyReviewed
		}
		return apperrors.Wrap(err, "创建评价失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	return nil
}

// ListByBook 图书评价列表
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	var models []ReviewModel
	err := getDB(ctx, r.db).
		Where("book_id = ?", bookID).
		Order("created_at DESC").Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评价失败")
	}

	reviews := make([]*review.Review, len(models))
	for i, m := range models {
		reviews[i] = &review.Review{
			ID:        m.ID,
			BookID:    m.BookID,
			UserID:    m.UserID,
			Name:      m.Name,
			Rating:    m.Rating,
			Comment:   m.Comment,
			CreatedAt: m.CreatedAt,
		}
	}
	return reviews, nil
}

// Stats 评价数量与均分
func (r *reviewRepository) Stats(ctx context.Context, bookID uint) (review.Stats, error) {
	var row struct {
		Count   int
		Average float64
	}
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return review.Stats{}, apperrors.Wrap(err, "统计评价失败")
	}
	return review.Stats{Count: row.Count, Average: row.Average}, nil
}
