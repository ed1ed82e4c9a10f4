package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/domain/user"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
	"github.com/xiebiao/bookmall/pkg/jwt"
)

// SessionStore 会话与Token黑名单（Redis实现：redis.SessionStore）
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]any, ttl time.Duration) error
	GetSession(ctx context.Context, userID uint) (map[string]string, error)
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// tokenIssuer 签发Token对并保存会话，登录、Google登录、刷新共用
type tokenIssuer struct {
	jwtManager *jwt.Manager
	sessions   SessionStore
	sessionTTL time.Duration
	logger     *zap.Logger
}

func (t *tokenIssuer) issue(ctx context.Context, u *user.User, via string) (*AuthResponse, error) {
	pair, err := t.jwtManager.GenerateToken(jwt.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
	})
	if err != nil {
		return nil, err
	}

	// 会话有效期 = Refresh Token有效期
	sessionData := map[string]any{
		"user_id":  u.ID,
		"email":    u.Email,
		"role":     string(u.Role),
		"via":      via,
		"login_at": time.Now().Unix(),
	}
	if err := t.sessions.SaveSession(ctx, u.ID, sessionData, t.sessionTTL); err != nil {
		// 会话保存失败不影响登录，刷新Token时会要求重新登录
		t.logger.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &AuthResponse{
		User:         ToUserDTO(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对（Access Token携带角色）
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService user.Service
	tokens      *tokenIssuer
	logger      *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		tokens:      &tokenIssuer{jwtManager: jwtManager, sessions: sessions, sessionTTL: sessionTTL, logger: logger},
		logger:      logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发Token并保存会话
	resp, err := uc.tokens.issue(ctx, u, "password")
	if err != nil {
		return nil, err
	}
	uc.logger.Info("用户登录", zap.Uint("user_id", u.ID))
	return resp, nil
}

// GoogleLogin Google登录：按GoogleID或邮箱找到账号，不存在则创建
func (uc *LoginUseCase) GoogleLogin(ctx context.Context, p user.GoogleProfile) (*AuthResponse, error) {
	u, err := uc.userService.GoogleLogin(ctx, p)
	if err != nil {
		return nil, err
	}
	return uc.tokens.issue(ctx, u, "google")
}

// RefreshUseCase 刷新Token
// Refresh Token只携带UserID，重新读取用户以拿到最新角色；
// 登出或账号删除后会话不存在，刷新失败
type RefreshUseCase struct {
	userRepo user.Repository
	tokens   *tokenIssuer
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(
	userRepo user.Repository,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *RefreshUseCase {
	return &RefreshUseCase{
		userRepo: userRepo,
		tokens:   &tokenIssuer{jwtManager: jwtManager, sessions: sessions, sessionTTL: sessionTTL, logger: logger},
	}
}

// Execute 执行刷新
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := uc.tokens.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := uc.tokens.sessions.GetSession(ctx, claims.UserID); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	u, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return uc.tokens.issue(ctx, u, "refresh")
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	sessions   SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessions SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessions: sessions}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, claims *jwt.Claims, accessToken string) error {
	// 1. 删除会话（Refresh Token随之失效）
	if err := uc.sessions.DeleteSession(ctx, claims.UserID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单，有效期为Token剩余时间
	return uc.sessions.AddToBlacklist(ctx, accessToken, uc.jwtManager.RemainingTTL(claims))
}
