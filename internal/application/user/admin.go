package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/domain/wishlist"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/pkg/response"
	"github.com/xiebiao/bookmall/pkg/saga"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// AdminUserUseCase 管理员用户管理
type AdminUserUseCase struct {
	userRepo    user.Repository
	wishlists   wishlist.Repository
	sessions    SessionStore
	sagaTimeout time.Duration
	logger      *zap.Logger
}

// NewAdminUserUseCase 创建用户管理用例
func NewAdminUserUseCase(
	userRepo user.Repository,
	wishlists wishlist.Repository,
	sessions SessionStore,
	sagaTimeout time.Duration,
	logger *zap.Logger,
) *AdminUserUseCase {
	return &AdminUserUseCase{
		userRepo:    userRepo,
		wishlists:   wishlists,
		sessions:    sessions,
		sagaTimeout: sagaTimeout,
		logger:      logger,
	}
}

// List 用户列表（注册时间倒序）
func (uc *AdminUserUseCase) List(ctx context.Context, page, pageSize int, keyword string) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultUserPageSize
	}
	pageSize = min(pageSize, maxUserPageSize)

	users, total, err := uc.userRepo.List(ctx, page, pageSize, keyword)
	if err != nil {
		return nil, err
	}

	dtos := make([]*UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return &UserListResponse{
		Users:      dtos,
		Page:       page,
		Pages:      response.TotalPages(total, pageSize),
		TotalUsers: total,
	}, nil
}

// Delete 删除用户
// 1. 管理员账号不可删除
// 2. 用户(MySQL)软删除后删除收藏夹(MongoDB)，收藏夹删除失败时恢复用户
// 3. 历史订单和评价保留
func (uc *AdminUserUseCase) Delete(ctx context.Context, id uint) error {
	u, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return user.ErrCannotDeleteAdmin
	}

	err = saga.NewSaga("delete_user", uc.sagaTimeout, uc.logger).
		AddStep("soft_delete_user",
			func(ctx context.Context) error {
				return uc.userRepo.Delete(ctx, id)
			},
			func(ctx context.Context) error {
				return uc.userRepo.Restore(ctx, id)
			},
		).
		AddStep("delete_wishlist",
			func(ctx context.Context) error {
				return uc.wishlists.Delete(ctx, id)
			},
			nil,
		).
		Execute(ctx)
	if err != nil {
		return err
	}

	// 强制下线：删除会话后Refresh Token失效
	if err := uc.sessions.DeleteSession(ctx, id); err != nil {
		uc.logger.Warn("删除会话失败", zap.Uint("user_id", id), zap.Error(err))
	}

	uc.logger.Info("用户已删除", zap.Uint("user_id", id), zap.String("email", u.Email))
	return nil
}

// BootstrapAdmin 启动时确保管理员账号存在，未配置邮箱时跳过
func BootstrapAdmin(ctx context.Context, svc user.Service, cfg config.AdminConfig, logger *zap.Logger) error {
	if cfg.Email == "" {
		logger.Info("未配置管理员账号，跳过初始化")
		return nil
	}

	admin, err := svc.EnsureAdmin(ctx, cfg.Email, cfg.Password, cfg.Name)
	if err != nil {
		return err
	}
	logger.Info("管理员账号就绪", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
	return nil
}
