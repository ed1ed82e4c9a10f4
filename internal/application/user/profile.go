package user

import (
	"context"

	"github.com/xiebiao/bookmall/internal/domain/user"
)

// ProfileUseCase 个人资料
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建个人资料用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Get 获取个人资料
func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*UserDTO, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(u), nil
}

// Update 更新资料，空字段保持不变
func (uc *ProfileUseCase) Update(ctx context.Context, userID uint, p user.Profile) (*UserDTO, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.UpdateProfile(p)
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserDTO(u), nil
}

// UpdateAvatar 更新头像（文件已由上传组件保存）
func (uc *ProfileUseCase) UpdateAvatar(ctx context.Context, userID uint, url string) (*UserDTO, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.UpdateAvatar(url)
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserDTO(u), nil
}
