package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/testutil"
	apperrors "github.com/xiebiao/bookmall/pkg/errors"
	"github.com/xiebiao/bookmall/pkg/jwt"
)

type userSuite struct {
	fx       *testutil.Fixture
	otp      *testutil.OTPStore
	sessions *testutil.SessionStore
	jwt      *jwt.Manager
	svc      user.Service

	requestOTP *RequestOTPUseCase
	register   *RegisterUseCase
	login      *LoginUseCase
	refresh    *RefreshUseCase
	logout     *LogoutUseCase
	password   *PasswordUseCase
	profile    *ProfileUseCase
	admin      *AdminUserUseCase
}

func newUserSuite() *userSuite {
	fx := testutil.NewFixture()
	log := zap.NewNop()
	otp := testutil.NewOTPStore()
	sessions := testutil.NewSessionStore()
	jm := jwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	svc := user.NewService(fx.Users, user.WithBcryptCost(bcrypt.MinCost))

	return &userSuite{
		fx:         fx,
		otp:        otp,
		sessions:   sessions,
		jwt:        jm,
		svc:        svc,
		requestOTP: NewRequestOTPUseCase(fx.Users, otp, fx.Events, 10*time.Minute, log),
		register:   NewRegisterUseCase(svc, otp, log),
		login:      NewLoginUseCase(svc, jm, sessions, 7*24*time.Hour, log),
		refresh:    NewRefreshUseCase(fx.Users, jm, sessions, 7*24*time.Hour, log),
		logout:     NewLogoutUseCase(jm, sessions),
		password:   NewPasswordUseCase(svc, otp, log),
		profile:    NewProfileUseCase(fx.Users),
		admin:      NewAdminUserUseCase(fx.Users, fx.Wishlists, sessions, time.Second, log),
	}
}

// signUp 走完整的验证码注册流程
func (s *userSuite) signUp(t *testing.T, email, username string) *UserDTO {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.requestOTP.Register(ctx, email))
	code := s.otp.Code(event.OTPPurposeRegister, user.NormalizeEmail(email))

	u, err := s.register.Execute(ctx, RegisterRequest{
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Name:            "Alice",
		Username:        username,
		OTP:             code,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterWithOTP(t *testing.T) {
	ctx := context.Background()
	s := newUserSuite()

	t.Run("发送验证码并发布事件", func(t *testing.T) {
		require.NoError(t, s.requestOTP.Register(ctx, " Alice@Example.com "))

		code := s.otp.Code(event.OTPPurposeRegister, "alice@example.com")
		assert.Len(t, code, 6)

		last, ok := s.fx.Events.Last()
		require.True(t, ok)
		assert.Equal(t, event.TopicOTPRequested, last.Topic)
		payload := last.Payload.(event.OTPEvent)
		assert.Equal(t, code, payload.Code)
		assert.Equal(t, 600, payload.ExpiresIn)
	})

	t.Run("两次密码不一致", func(t *testing.T) {
		_, err := s.register.Execute(ctx, RegisterRequest{
			Email: "alice@example.com", Password: "secret123", ConfirmPassword: "secret124",
			Name: "Alice", Username: "alice", OTP: "000000",
		})
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("验证码错误", func(t *testing.T) {
		_, err := s.register.Execute(ctx, RegisterRequest{
			Email: "alice@example.com", Password: "secret123", ConfirmPassword: "secret123",
			Name: "Alice", Username: "alice", OTP: "bad",
		})
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("注册成功且验证码作废", func(t *testing.T) {
		code := s.otp.Code(event.OTPPurposeRegister, "alice@example.com")
		req := RegisterRequest{
			Email: "alice@example.com", Password: "secret123", ConfirmPassword: "secret123",
			Name: "Alice", Username: "alice", OTP: code,
		}
		u, err := s.register.Execute(ctx, req)
		require.NoError(t, err)
		assert.True(t, u.IsVerified)
		assert.Equal(t, "user", u.Role)

		_, err = s.register.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("已注册邮箱不能再申请验证码", func(t *testing.T) {
		err := s.requestOTP.Register(ctx, "alice@example.com")
		assert.ErrorIs(t, err, user.ErrEmailDuplicate)
	})

	t.Run("用户名已被占用", func(t *testing.T) {
		require.NoError(t, s.requestOTP.Register(ctx, "bob@example.com"))
		_, err := s.register.Execute(ctx, RegisterRequest{
			Email: "bob@example.com", Password: "secret123", ConfirmPassword: "secret123",
			Name: "Bob", Username: "alice", OTP: s.otp.Code(event.OTPPurposeRegister, "bob@example.com"),
		})
		assert.ErrorIs(t, err, user.ErrUsernameDuplicate)
	})

	t.Run("事件投递失败返回错误", func(t *testing.T) {
		s.fx.Events.Err = errors.New("broker down")
		defer func() { s.fx.Events.Err = nil }()

		err := s.requestOTP.Register(ctx, "carol@example.com")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal))
	})
}

func TestLoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	s := newUserSuite()
	registered := s.signUp(t, "alice@example.com", "alice")

	resp, err := s.login.Execute(ctx, LoginRequest{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.True(t, s.sessions.HasSession(registered.ID))

	claims, err := s.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)

	t.Run("密码错误", func(t *testing.T) {
		_, err := s.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})

	t.Run("刷新Token", func(t *testing.T) {
		refreshed, err := s.refresh.Execute(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)

		_, err = s.refresh.Execute(ctx, resp.AccessToken)
		assert.Error(t, err, "Access Token不能用于刷新")
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		require.NoError(t, s.logout.Execute(ctx, claims, resp.AccessToken))

		revoked, err := s.sessions.IsInBlacklist(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, revoked)
		assert.False(t, s.sessions.HasSession(registered.ID))

		_, err = s.refresh.Execute(ctx, resp.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()
	s := newUserSuite()

	resp, err := s.login.GoogleLogin(ctx, user.GoogleProfile{
		GoogleID: "g-123", Email: "gina@gmail.com", Name: "Gina", Picture: "https://img/g.png",
	})
	require.NoError(t, err)
	assert.True(t, resp.User.IsVerified)
	assert.True(t, resp.User.HasGoogle)
	assert.Equal(t, "https://img/g.png", resp.User.Avatar)

	again, err := s.login.GoogleLogin(ctx, user.GoogleProfile{GoogleID: "g-123", Email: "gina@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)

	t.Run("Google账号不能用密码登录", func(t *testing.T) {
		_, err := s.login.Execute(ctx, LoginRequest{Email: "gina@gmail.com", Password: "anything"})
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})
}

func TestPasswordFlows(t *testing.T) {
	ctx := context.Background()
	s := newUserSuite()
	u := s.signUp(t, "alice@example.com", "alice")

	t.Run("未注册邮箱不能找回密码", func(t *testing.T) {
		err := s.requestOTP.ForgotPassword(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("验证码重置密码", func(t *testing.T) {
		require.NoError(t, s.requestOTP.ForgotPassword(ctx, "alice@example.com"))
		code := s.otp.Code(event.OTPPurposeResetPassword, "alice@example.com")
		require.NotEmpty(t, code)

		err := s.password.Reset(ctx, ResetPasswordRequest{
			Email: "alice@example.com", OTP: code, NewPassword: "newsecret", ConfirmPassword: "newsecret",
		})
		require.NoError(t, err)

		_, err = s.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "newsecret"})
		assert.NoError(t, err)
	})

	t.Run("注册验证码不能用于重置密码", func(t *testing.T) {
		require.NoError(t, s.otp.Save(ctx, event.OTPPurposeRegister, "alice@example.com", "123456", time.Minute))
		err := s.password.Reset(ctx, ResetPasswordRequest{
			Email: "alice@example.com", OTP: "123456", NewPassword: "another1", ConfirmPassword: "another1",
		})
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("修改密码需要原密码", func(t *testing.T) {
		err := s.password.Change(ctx, ChangePasswordRequest{
			UserID: u.ID, OldPassword: "wrong", NewPassword: "changed1", ConfirmPassword: "changed1",
		})
		assert.ErrorIs(t, err, user.ErrWrongOldPassword)

		err = s.password.Change(ctx, ChangePasswordRequest{
			UserID: u.ID, OldPassword: "newsecret", NewPassword: "changed1", ConfirmPassword: "changed1",
		})
		require.NoError(t, err)

		_, err = s.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "changed1"})
		assert.NoError(t, err)
	})

	t.Run("新密码太短", func(t *testing.T) {
		err := s.password.Change(ctx, ChangePasswordRequest{
			UserID: u.ID, OldPassword: "changed1", NewPassword: "123", ConfirmPassword: "123",
		})
		assert.ErrorIs(t, err, user.ErrWeakPassword)
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	s := newUserSuite()
	u := s.signUp(t, "alice@example.com", "alice")

	updated, err := s.profile.Update(ctx, u.ID, user.Profile{Phone: "0912345678", City: "Hà Nội"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name, "空字段保持不变")
	assert.Equal(t, "0912345678", updated.Phone)

	withAvatar, err := s.profile.UpdateAvatar(ctx, u.ID, "/uploads/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", withAvatar.Avatar)

	got, err := s.profile.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hà Nội", got.City)

	_, err = s.profile.Get(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAdminUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("不能删除管理员", func(t *testing.T) {
		s := newUserSuite()
		require.NoError(t, BootstrapAdmin(ctx, s.svc, config.AdminConfig{
			Email: "admin@example.com", Password: "admin123", Name: "Admin",
		}, zap.NewNop()))

		admin, err := s.fx.Users.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin())

		err = s.admin.Delete(ctx, admin.ID)
		assert.ErrorIs(t, err, user.ErrCannotDeleteAdmin)
		assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
	})

	t.Run("删除用户同时删除收藏夹和会话", func(t *testing.T) {
		s := newUserSuite()
		u := s.signUp(t, "alice@example.com", "alice")
		require.NoError(t, s.fx.Wishlists.Add(ctx, u.ID, 42))
		_, err := s.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)

		require.NoError(t, s.admin.Delete(ctx, u.ID))
		assert.True(t, s.fx.Users.IsDeleted(u.ID))
		assert.False(t, s.sessions.HasSession(u.ID))

		w, err := s.fx.Wishlists.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, w.BookIDs)
	})

	t.Run("收藏夹删除失败时恢复用户", func(t *testing.T) {
		s := newUserSuite()
		u := s.signUp(t, "alice@example.com", "alice")
		s.fx.Wishlists.FailDelete = errors.New("mongo unavailable")

		require.Error(t, s.admin.Delete(ctx, u.ID))
		assert.False(t, s.fx.Users.IsDeleted(u.ID))
	})

	t.Run("用户列表分页", func(t *testing.T) {
		s := newUserSuite()
		s.signUp(t, "a@example.com", "user_a")
		s.signUp(t, "b@example.com", "user_b")
		s.signUp(t, "c@example.com", "user_c")

		resp, err := s.admin.List(ctx, 1, 2, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.TotalUsers)
		assert.Equal(t, 2, resp.Pages)
		require.Len(t, resp.Users, 2)
		assert.Equal(t, "c@example.com", resp.Users[0].Email)

		resp, err = s.admin.List(ctx, 1, 10, "user_b")
		require.NoError(t, err)
		assert.Len(t, resp.Users, 1)
	})

	t.Run("未配置管理员时跳过", func(t *testing.T) {
		s := newUserSuite()
		require.NoError(t, BootstrapAdmin(ctx, s.svc, config.AdminConfig{}, zap.NewNop()))
	})
}
