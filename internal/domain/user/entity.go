package user

import (
	"strings"
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码以bcrypt哈希存储；Google登录创建的账号Password为空，不能用密码登录
// 2. 收藏夹属于独立的文档存储，不在此聚合内
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID         uint
	Email      string
	Password   string // bcrypt哈希值
	Name       string
	Username   string
	Role       Role
	Phone      string
	Address    string
	City       string
	Avatar     string
	GoogleID   string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name, username string) *User {
	now := time.Now()
	return &User{
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		Name:      strings.TrimSpace(name),
		Username:  strings.TrimSpace(username),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword Google账号未设置密码
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// Profile 用户可自行修改的资料
type Profile struct {
	Name    string
	Phone   string
	Address string
	City    string
}

// UpdateProfile 更新资料（领域行为），空字段保持不变
func (u *User) UpdateProfile(p Profile) {
	if name := strings.TrimSpace(p.Name); name != "" {
		u.Name = name
	}
	if p.Phone != "" {
		u.Phone = strings.TrimSpace(p.Phone)
	}
	if p.Address != "" {
		u.Address = strings.TrimSpace(p.Address)
	}
	if p.City != "" {
		u.City = strings.TrimSpace(p.City)
	}
	u.UpdatedAt = time.Now()
}

// UpdateAvatar 更新头像
func (u *User) UpdateAvatar(url string) {
	u.Avatar = url
	u.UpdatedAt = time.Now()
}

// LinkGoogle 绑定Google账号，Google已验证邮箱
func (u *User) LinkGoogle(googleID, avatar string) {
	u.GoogleID = googleID
	u.IsVerified = true
	if u.Avatar == "" {
		u.Avatar = avatar
	}
	u.UpdatedAt = time.Now()
}

// NormalizeEmail 邮箱统一小写去空格
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
