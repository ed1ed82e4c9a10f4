package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/review"
	"github.com/xiebiao/bookmall/internal/domain/shared"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/pkg/metrics"
)

// ReviewDTO 评价
type ReviewDTO struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"book"`
	UserID    uint      `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToReviewDTOs 转换评价列表
func ToReviewDTOs(reviews []*review.Review) []ReviewDTO {
	out := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewDTO{
			ID:        r.ID,
			BookID:    r.BookID,
			UserID:    r.UserID,
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}

// CreateReviewUseCase 提交评价
// 1. 必须有包含该书且已送达的订单
// 2. 每个用户对每本书只能评价一次(唯一索引兜底并发提交)
// 3. 写入评价与重算评分在同一事务
type CreateReviewUseCase struct {
	reviewRepo review.Repository
	orderRepo  order.Repository
	bookRepo   book.Repository
	userRepo   user.Repository
	txManager  shared.TxManager
	logger     *zap.Logger
}

// NewCreateReviewUseCase 创建评价用例
func NewCreateReviewUseCase(
	reviewRepo review.Repository,
	orderRepo order.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	txManager shared.TxManager,
	logger *zap.Logger,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateReviewRequest 评价请求
type CreateReviewRequest struct {
	BookID  uint
	UserID  uint
	Rating  int
	Comment string
}

// CreateReviewResponse 评价结果及最新聚合评分
type CreateReviewResponse struct {
	Review     ReviewDTO `json:"review"`
	Rating     float64   `json:"rating"`
	NumReviews int       `json:"numReviews"`
}

// Execute 执行提交评价
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*CreateReviewResponse, error) {
	// 1. 图书与用户
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}
	u, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// 2. 构造评价(校验评分和内容)
	rv, err := review.NewReview(req.BookID, req.UserID, u.Name, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	// 3. 购买校验
	delivered, err := uc.orderRepo.HasDeliveredBook(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, review.ErrNotPurchased
	}

	// 4. 写入评价并重算聚合
	var stats review.Stats
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.reviewRepo.Create(txCtx, rv); err != nil {
			return err
		}
		var err error
		stats, err = uc.reviewRepo.Stats(txCtx, req.BookID)
		if err != nil {
			return err
		}
		return uc.bookRepo.UpdateRating(txCtx, req.BookID, stats.Average, stats.Count)
	})
	if err != nil {
		return nil, err
	}

	metrics.InitMetrics()
	metrics.IncCounter(metrics.ReviewsCreatedTotal)
	uc.logger.Info("新增评价",
		zap.Uint("book_id", req.BookID),
		zap.Uint("user_id", req.UserID),
		zap.Int("rating", req.Rating),
	)

	return &CreateReviewResponse{
		Review:     ToReviewDTOs([]*review.Review{rv})[0],
		Rating:     stats.Average,
		NumReviews: stats.Count,
	}, nil
}
