package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 用户注册（邮箱验证码已由应用层校验）
	Register(ctx context.Context, p RegisterParams) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, email, password string) (*User, error)

	// GoogleLogin 按GoogleID→邮箱的顺序查找用户，都不存在则创建
	GoogleLogin(ctx context.Context, p GoogleProfile) (*User, error)

	// ChangePassword 修改密码（需校验原密码）
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error

	// ResetPassword 重置密码（验证码已由应用层校验）
	ResetPassword(ctx context.Context, email, newPassword string) error

	// EnsureAdmin 确保管理员账号存在，已存在的普通账号会被提升为管理员
	EnsureAdmin(ctx context.Context, email, password, name string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

// RegisterParams 注册参数
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Username string
}

// GoogleProfile Google账号信息（令牌校验由前端SDK完成）
type GoogleProfile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// Option 服务选项
type Option func(*service)

// WithBcryptCost 设置bcrypt成本（测试中使用bcrypt.MinCost加速）
func WithBcryptCost(cost int) Option {
	return func(s *service) { s.cost = cost }
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, cost: 12}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 用户注册
// 业务规则：
// 1. 邮箱、用户名、姓名格式校验
// 2. 密码长度6-64位
// 3. 用户名先查重给出友好提示，并发情况由唯一索引兜底
// 4. 通过验证码注册的账号视为已验证邮箱
func (s *service) Register(ctx context.Context, p RegisterParams) (*User, error) {
	// 1. 格式校验
	if !isValidEmail(p.Email) {
		return nil, ErrInvalidEmail
	}
	if !isValidUsername(p.Username) {
		return nil, ErrInvalidUsername
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(p.Name)); n < 1 || n > 50 {
		return nil, ErrInvalidName
	}
	if err := validatePasswordStrength(p.Password); err != nil {
		return nil, err
	}

	// 2. 邮箱、用户名查重
	if _, err := s.repo.FindByEmail(ctx, NormalizeEmail(p.Email)); err == nil {
		return nil, ErrEmailDuplicate
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByUsername(ctx, strings.TrimSpace(p.Username)); err == nil {
		return nil, ErrUsernameDuplicate
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 3. 密码加密
	hashed, err := s.hash(p.Password)
	if err != nil {
		return nil, err
	}

	// 4. 创建并持久化
	u := NewUser(p.Email, hashed, p.Name, p.Username)
	u.IsVerified = true
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
// 邮箱不存在与密码错误返回同一个错误，避免枚举账号
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	if !u.HasPassword() {
		return nil, ErrInvalidPassword
	}
	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

// GoogleLogin Google登录
func (s *service) GoogleLogin(ctx context.Context, p GoogleProfile) (*User, error) {
	if p.GoogleID == "" || !isValidEmail(p.Email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "Google账号信息不完整")
	}

	// 1. 已绑定
	u, err := s.repo.FindByGoogleID(ctx, p.GoogleID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 2. 同邮箱账号，绑定Google
	u, err = s.repo.FindByEmail(ctx, NormalizeEmail(p.Email))
	if err == nil {
		u.LinkGoogle(p.GoogleID, p.Picture)
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 3. 新建账号（无密码）
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.Split(p.Email, "@")[0]
	}
	u = NewUser(p.Email, "", name, generateUsername(p.Email))
	u.LinkGoogle(p.GoogleID, p.Picture)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword 修改密码
func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	// 1. 新密码校验
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	// 2. 查询用户
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	// 3. 校验原密码（Google账号首次设置密码时不需要）
	if u.HasPassword() {
		if err := s.ValidatePassword(u.Password, oldPassword); err != nil {
			if errors.Is(err, ErrInvalidPassword) {
				return ErrWrongOldPassword
			}
			return err
		}
	}

	// 4. 更新
	return s.setPassword(ctx, u, newPassword)
}

// ResetPassword 重置密码
func (s *service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u, newPassword)
}

// EnsureAdmin 确保管理员账号存在
func (s *service) EnsureAdmin(ctx context.Context, email, password, name string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		if u.IsAdmin() {
			return u, nil
		}
		u.Role = RoleAdmin
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	hashed, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Administrator"
	}

	u = NewUser(email, hashed, name, generateUsername(email))
	u.Role = RoleAdmin
	u.IsVerified = true
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

func (s *service) setPassword(ctx context.Context, u *User, plain string) error {
	hashed, err := s.hash(plain)
	if err != nil {
		return err
	}
	u.Password = hashed
	return s.repo.Update(ctx, u)
}

func (s *service) hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func isValidUsername(username string) bool {
	return usernamePattern.MatchString(strings.TrimSpace(username))
}

// validatePasswordStrength 密码长度6-64位（bcrypt最多处理72字节）
func validatePasswordStrength(password string) error {
	if len(password) < 6 || len(password) > 64 {
		return ErrWeakPassword
	}
	return nil
}

// generateUsername 由邮箱前缀生成用户名，附加随机后缀避免冲突
func generateUsername(email string) string {
	local := strings.Split(NormalizeEmail(email), "@")[0]
	base := strings.ReplaceAll(slug.Make(local), "-", "_")
	if len(base) > 20 {
		base = base[:20]
	}
	if base == "" {
		base = "user"
	}
	return base + "_" + uuid.NewString()[:6]
}
