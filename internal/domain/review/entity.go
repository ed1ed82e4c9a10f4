package review

import (
	"strings"
	"time"
)

// 评分范围
const (
	MinRating = 1
	MaxRating = 5
)

// Review 图书评价
// 每个(UserID, BookID)最多一条,由唯一索引保证;创建后不可修改
type Review struct {
	ID        uint
	BookID    uint
	UserID    uint
	Name      string // 评价时的用户名快照
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewReview 创建评价(工厂方法)
func NewReview(bookID, userID uint, name string, rating int, comment string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	return &Review{
		BookID:    bookID,
		UserID:    userID,
		Name:      name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}, nil
}

// Stats 图书评价聚合
type Stats struct {
	Count   int
	Average float64
}

// Aggregate 计算评分均值
func Aggregate(ratings []int) Stats {
	if len(ratings) == 0 {
		return Stats{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Stats{Count: len(ratings), Average: float64(sum) / float64(len(ratings))}
}
