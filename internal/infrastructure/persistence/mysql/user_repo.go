package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookmall/internal/domain/user"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// userRepository 用户仓储实现（MySQL）
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 邮箱、用户名唯一性最终由UNIQUE索引保证，冲突时按索引名区分
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return translateUserError(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByGoogleID 根据Google账号查找用户
func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*user.User, error) {
	return r.findOne(ctx, "google_id = ?", googleID)
}

func (r *userRepository) findOne(ctx context.Context, cond string, arg any) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 更新用户信息
// 使用Save更新所有字段
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	var existing UserModel
	if err := getDB(ctx, r.db).Select("created_at").First(&existing, u.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrUserNotFound
		}
		return apperrors.Wrap(err, "查询用户失败")
	}
	model.CreatedAt = existing.CreatedAt

	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return translateUserError(err, "更新用户失败")
	}

	u.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除用户（软删除）
// GORM的软删除：DELETE操作会自动变成UPDATE deleted_at
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Restore 恢复软删除的用户
func (r *userRepository) Restore(ctx context.Context, id uint) error {
	err := getDB(ctx, r.db).Unscoped().Model(&UserModel{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
	if err != nil {
		return apperrors.Wrap(err, "恢复用户失败")
	}
	return nil
}

// List 用户列表
func (r *userRepository) List(ctx context.Context, page, pageSize int, keyword string) ([]*user.User, int64, error) {
	var models []UserModel
	var total int64

	query := getDB(ctx, r.db).Model(&UserModel{})
	if keyword != "" {
		kw := likePattern(keyword)
		query = query.Where("(LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR LOWER(username) LIKE ?)", kw, kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户总数失败")
	}

	limit, offset := paginate(page, pageSize)
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, total, nil
}

func translateUserError(err error, message string) error {
	switch {
	case duplicateKeyIs(err, "username"):
		return user.ErrUsernameDuplicate
	case duplicateKeyIs(err, "google_id"):
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "该Google账号已绑定其他用户")
	case isDuplicateError(err):
		return user.ErrEmailDuplicate
	default:
		return apperrors.Wrap(err, message)
	}
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	var googleID *string
	if u.GoogleID != "" {
		id := u.GoogleID
		googleID = &id
	}
	return &UserModel{
		ID:         u.ID,
		Email:      u.Email,
		Password:   u.Password,
		Name:       u.Name,
		Username:   u.Username,
		Role:       string(u.Role),
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		Avatar:     u.Avatar,
		GoogleID:   googleID,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	u := &user.User{
		ID:         model.ID,
		Email:      model.Email,
		Password:   model.Password,
		Name:       model.Name,
		Username:   model.Username,
		Role:       user.Role(model.Role),
		Phone:      model.Phone,
		Address:    model.Address,
		City:       model.City,
		Avatar:     model.Avatar,
		IsVerified: model.IsVerified,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
	if model.GoogleID != nil {
		u.GoogleID = *model.GoogleID
	}
	return u
}
