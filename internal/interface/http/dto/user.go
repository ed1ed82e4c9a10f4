package dto

// EmailRequest 只包含邮箱的请求（获取验证码、忘记密码）
type EmailRequest struct {
	Email string `json:"email" binding:"required,email" example:"reader@example.com"`
}

// RegisterRequest 注册（需先获取邮箱验证码）
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password        string `json:"password" binding:"required,min=6,max=64"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Name            string `json:"name" binding:"required,min=3,max=30" example:"Nguyen Van A"`
	Username        string `json:"username" binding:"required,min=3,max=30" example:"reader01"`
	OTP             string `json:"otp" binding:"required,len=6,numeric" example:"123456"`
}

// LoginRequest 邮箱密码登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest Google登录（前端完成OAuth后提交的资料）
type GoogleLoginRequest struct {
	GoogleID string `json:"googleId" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=100"`
	Picture  string `json:"picture" binding:"omitempty,url"`
}

// ResetPasswordRequest 通过验证码重置密码
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	OTP             string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=64"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// RefreshRequest 刷新Token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest 更新个人资料，空字段保持不变
type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"omitempty,min=3,max=30"`
	Phone   string `json:"phone" binding:"omitempty,vnphone" example:"0912345678"`
	Address string `json:"address" binding:"omitempty,max=200"`
	City    string `json:"city" binding:"omitempty,max=100"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=64"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// WishlistRequest 加入收藏
type WishlistRequest struct {
	ID uint `json:"id" binding:"required,min=1" example:"1"`
}
