package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookmall/internal/application/user"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/interface/http/dto"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/pkg/response"
)

// AuthHandler 认证HTTP处理器
type AuthHandler struct {
	otpUseCase      *appuser.RequestOTPUseCase
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	refreshUseCase  *appuser.RefreshUseCase
	logoutUseCase   *appuser.LogoutUseCase
	passwordUseCase *appuser.PasswordUseCase
	profileUseCase  *appuser.ProfileUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	otpUseCase *appuser.RequestOTPUseCase,
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	refreshUseCase *appuser.RefreshUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	passwordUseCase *appuser.PasswordUseCase,
	profileUseCase *appuser.ProfileUseCase,
) *AuthHandler {
	return &AuthHandler{
		otpUseCase:      otpUseCase,
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		refreshUseCase:  refreshUseCase,
		logoutUseCase:   logoutUseCase,
		passwordUseCase: passwordUseCase,
		profileUseCase:  profileUseCase,
	}
}

// RequestOTP 获取注册验证码
// @Summary      获取注册验证码
// @Description  验证码通过邮件发送，有效期由配置决定
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.EmailRequest true "邮箱"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "参数错误或邮箱已注册"
// @Router       /api/auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req dto.EmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.otpUseCase.Register(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "验证码已发送"})
}

// Register 用户注册
// @Summary      用户注册
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserDTO}
// @Failure      400 {object} response.Response "参数错误、验证码错误或邮箱/用户名已存在"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
		Username:        req.Username,
		OTP:             req.OTP,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.AuthResponse}
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GoogleLogin Google登录
// @Summary      Google登录
// @Description  按googleId查找，其次按邮箱关联，都不存在时创建已验证用户
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.GoogleLoginRequest true "Google资料"
// @Success      200 {object} response.Response{data=appuser.AuthResponse}
// @Router       /api/auth/google-login [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.GoogleLogin(c.Request.Context(), user.GoogleProfile{
		GoogleID: req.GoogleID,
		Email:    req.Email,
		Name:     req.Name,
		Picture:  req.Picture,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ForgotPassword 获取重置密码验证码
// @Summary      忘记密码
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.EmailRequest true "邮箱"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.otpUseCase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "验证码已发送"})
}

// ResetPassword 通过验证码重置密码
// @Summary      重置密码
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.ResetPasswordRequest true "重置信息"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "验证码错误或已过期"
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.passwordUseCase.Reset(c.Request.Context(), appuser.ResetPasswordRequest{
		Email:           req.Email,
		OTP:             req.OTP,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "密码已重置，请重新登录"})
}

// Refresh 刷新Token
// @Summary      刷新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.AuthResponse}
// @Failure      401 {object} response.Response "Token无效或已登出"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  当前Access Token加入黑名单，并删除会话使Refresh Token失效
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.ErrorWithCode(c, 40100, "请先登录")
		return
	}
	if err := h.logoutUseCase.Execute(c.Request.Context(), claims, middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "已登出"})
}

// Profile 当前用户信息
// @Summary      当前用户信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	result, err := h.profileUseCase.Get(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
