package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 邮箱已存在返回ErrEmailDuplicate，用户名已存在返回ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户，不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername 根据用户名查找用户，不存在返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByGoogleID 根据Google账号查找用户，不存在返回ErrUserNotFound
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（软删除）
	Delete(ctx context.Context, id uint) error

	// Restore 恢复软删除的用户（补偿操作）
	Restore(ctx context.Context, id uint) error

	// List 管理员用户列表（按注册时间倒序）
	List(ctx context.Context, page, pageSize int, keyword string) ([]*User, int64, error)
}
