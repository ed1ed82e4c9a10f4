package user

import (
	"time"

	"github.com/xiebiao/bookmall/internal/domain/user"
)

// UserDTO 用户信息（不含密码）
type UserDTO struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IsAdmin    bool      `json:"isAdmin"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	Avatar     string    `json:"avatar"`
	IsVerified bool      `json:"isVerified"`
	HasGoogle  bool      `json:"hasGoogle"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthResponse 登录/刷新响应
type AuthResponse struct {
	User         *UserDTO `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"` // Access Token过期时间（秒）
}

// UserListResponse 管理员用户列表
type UserListResponse struct {
	Users      []*UserDTO `json:"users"`
	Page       int        `json:"page"`
	Pages      int        `json:"pages"`
	TotalUsers int64      `json:"totalUsers"`
}

// ToUserDTO 领域实体 → DTO
func ToUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Username:   u.Username,
		Role:       string(u.Role),
		IsAdmin:    u.IsAdmin(),
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
		HasGoogle:  u.GoogleID != "",
		CreatedAt:  u.CreatedAt,
	}
}
