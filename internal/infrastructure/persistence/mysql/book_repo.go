package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookmall/internal/domain/book"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 库存变更使用条件UPDATE保证原子性,不做先读后写
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// editableColumns 管理员编辑时更新的列(计数字段不在其中)
var editableColumns = []string{
	"title", "slug", "author", "description", "category", "image",
	"price", "original_price", "stock", "updated_at",
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查询
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}

	var models []BookModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询图书失败")
	}
	return toBookEntities(models), nil
}

// Update 更新可编辑字段
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	result := getDB(ctx, r.db).Model(&BookModel{ID: b.ID}).Select(editableColumns).Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 下架图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Restore 恢复软删除
func (r *bookRepository) Restore(ctx context.Context, id uint) error {
	err := getDB(ctx, r.db).Unscoped().Model(&BookModel{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
	if err != nil {
		return apperrors.Wrap(err, "恢复图书失败")
	}
	return nil
}

// List 条件分页查询
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	// 1. 构建过滤条件
	query := getDB(ctx, r.db).Model(&BookModel{})
	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)", kw, kw)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.MinPrice > 0 {
		query = query.Where("price >= ?", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		query = query.Where("price <= ?", params.MaxPrice)
	}
	if params.InStock {
		query = query.Where("stock > 0")
	}

	// 2. 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 3. 排序 + 分页
	limit, offset := paginate(params.Page, params.PageSize)
	err := query.Order(sortClause(params.Sort)).Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	return toBookEntities(models), total, nil
}

func sortClause(s book.Sort) string {
	switch s {
	case book.SortPriceAsc:
		return "price ASC"
	case book.SortPriceDesc:
		return "price DESC"
	case book.SortTopRated:
		return "rating DESC, num_reviews DESC"
	case book.SortBestSelling:
		return "sold DESC"
	default:
		return "created_at DESC"
	}
}

// ListShelf 首页书架
func (r *bookRepository) ListShelf(ctx context.Context, shelf book.Shelf, limit int) ([]*book.Book, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})

	switch shelf {
	case book.ShelfNewArrivals:
		query = query.Order("created_at DESC")
	case book.ShelfBestSellers:
		query = query.Order("sold DESC")
	case book.ShelfTopViewed:
		query = query.Order("views DESC")
	case book.ShelfHotDeals:
		// 折扣率 = (原价 - 售价) / 原价,只取有折扣的图书
		query = query.Where("original_price > price").
			Order("(original_price - price) / original_price DESC")
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidParams, "未知书架: %s", shelf)
	}

	var models []BookModel
	if err := query.Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, apperrors.Wrapf(err, "查询书架失败: %s", shelf)
	}
	return toBookEntities(models), nil
}

// ListRelated 同分类的其他图书
func (r *bookRepository) ListRelated(ctx context.Context, b *book.Book, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("category = ? AND id <> ?", b.Category, b.ID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询相关图书失败")
	}
	return toBookEntities(models), nil
}

// Categories 分类列表
func (r *bookRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return categories, nil
}

// IncrViews 浏览次数+1
// UpdateColumn不触发updated_at更新
func (r *bookRepository) IncrViews(ctx context.Context, id uint) error {
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return apperrors.Wrap(err, "更新浏览次数失败")
	}
	return nil
}

// DeductStock 原子扣减库存
// UPDATE books SET stock = stock - ?, sold = sold + ? WHERE id = ? AND stock >= ?
// 必须使用getDB(ctx)参与调用方事务;扣减后在同一事务内读回库存,行锁保证读到的是本次扣减的结果
func (r *bookRepository) DeductStock(ctx context.Context, id uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, book.ErrInvalidQuantity
	}

	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumns(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"sold":       gorm.Expr("sold + ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在或库存不足,再查一次确定原因
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, book.ErrBookNotFound
			}
			return 0, apperrors.Wrap(err, "查询图书失败")
		}
		return 0, book.InsufficientStock(model.Title, model.Stock)
	}

	var stocks []int
	if err := db.Model(&BookModel{}).Where("id = ?", id).Pluck("stock", &stocks).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询库存失败")
	}
	if len(stocks) == 0 {
		return 0, book.ErrBookNotFound
	}
	return stocks[0], nil
}

// RestoreStock 回补库存
// 已下架的图书同样回补(Unscoped),sold不会减到负数
func (r *bookRepository) RestoreStock(ctx context.Context, id uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, book.ErrInvalidQuantity
	}

	db := getDB(ctx, r.db).Unscoped()
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"sold":       gorm.Expr("GREATEST(sold - ?, 0)", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "回补库存失败")
	}
	if result.RowsAffected == 0 {
		return 0, book.ErrBookNotFound
	}

	var stocks []int
	if err := db.Model(&BookModel{}).Where("id = ?", id).Pluck("stock", &stocks).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询库存失败")
	}
	if len(stocks) == 0 {
		return 0, book.ErrBookNotFound
	}
	return stocks[0], nil
}

// UpdateRating 写入评价聚合
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, rating float64, numReviews int) error {
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"rating":      rating,
			"num_reviews": numReviews,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新评分失败")
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Slug:          b.Slug,
		Author:        b.Author,
		Description:   b.Description,
		Category:      b.Category,
		Image:         b.Image,
		Price:         b.Price,
		OriginalPrice: b.OriginalPrice,
		Stock:         b.Stock,
		Sold:          b.Sold,
		Views:         b.Views,
		Rating:        b.Rating,
		NumReviews:    b.NumReviews,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Slug:          model.Slug,
		Author:        model.Author,
		Description:   model.Description,
		Category:      model.Category,
		Image:         model.Image,
		Price:         model.Price,
		OriginalPrice: model.OriginalPrice,
		Stock:         model.Stock,
		Sold:          model.Sold,
		Views:         model.Views,
		Rating:        model.Rating,
		NumReviews:    model.NumReviews,
		CreatedBy:     model.CreatedBy,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
