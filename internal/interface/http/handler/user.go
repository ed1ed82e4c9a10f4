package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookmall/internal/application/user"
	appwishlist "github.com/xiebiao/bookmall/internal/application/wishlist"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/interface/http/dto"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/pkg/response"
)

// UserHandler 用户HTTP处理器（个人资料、收藏夹、用户管理）
type UserHandler struct {
	profileUseCase  *appuser.ProfileUseCase
	passwordUseCase *appuser.PasswordUseCase
	adminUseCase    *appuser.AdminUserUseCase
	wishlistUseCase *appwishlist.WishlistUseCase
	uploader        ImageUploader
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	profileUseCase *appuser.ProfileUseCase,
	passwordUseCase *appuser.PasswordUseCase,
	adminUseCase *appuser.AdminUserUseCase,
	wishlistUseCase *appwishlist.WishlistUseCase,
	uploader ImageUploader,
) *UserHandler {
	return &UserHandler{
		profileUseCase:  profileUseCase,
		passwordUseCase: passwordUseCase,
		adminUseCase:    adminUseCase,
		wishlistUseCase: wishlistUseCase,
		uploader:        uploader,
	}
}

// GetProfile 获取个人资料
// @Summary      获取个人资料
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	result, err := h.profileUseCase.Get(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateProfile 更新个人资料
// @Summary      更新个人资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.profileUseCase.Update(c.Request.Context(), middleware.MustGetUserID(c), user.Profile{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateAvatar 上传头像
// @Summary      上传头像
// @Tags         用户
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "头像图片"
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Failure      400 {object} response.Response "图片格式或大小不符合要求"
// @Router       /api/users/avatar [put]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: 请上传头像图片")
		return
	}

	url, err := h.uploader.SaveImage(fh, uploadCategoryAvatars)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.profileUseCase.UpdateAvatar(c.Request.Context(), middleware.MustGetUserID(c), url)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "密码"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "原密码错误"
// @Router       /api/users/change-password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.passwordUseCase.Change(c.Request.Context(), appuser.ChangePasswordRequest{
		UserID:          middleware.MustGetUserID(c),
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "密码已修改"})
}

// MyWishlist 我的收藏
// @Summary      我的收藏
// @Tags         收藏夹
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "收藏的图书列表"
// @Router       /api/users/wishlist/my [get]
func (h *UserHandler) MyWishlist(c *gin.Context) {
	result, err := h.wishlistUseCase.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddToWishlist 加入收藏
// @Summary      加入收藏
// @Tags         收藏夹
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.WishlistRequest true "图书ID"
// @Success      200 {object} response.Response "收藏的图书列表"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/users/wishlist/add [post]
func (h *UserHandler) AddToWishlist(c *gin.Context) {
	var req dto.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.wishlistUseCase.Add(c.Request.Context(), userID, req.ID); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWishlist(c, userID)
}

// RemoveFromWishlist 移除收藏
// @Summary      移除收藏
// @Tags         收藏夹
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "收藏的图书列表"
// @Router       /api/users/wishlist/{id} [delete]
func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.wishlistUseCase.Remove(c.Request.Context(), userID, bookID); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWishlist(c, userID)
}

func (h *UserHandler) respondWishlist(c *gin.Context, userID uint) {
	result, err := h.wishlistUseCase.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListUsers 管理员用户列表
// @Summary      用户列表
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int    false "页码"
// @Param        pageSize query int    false "每页数量"
// @Param        keyword  query string false "邮箱/姓名/用户名"
// @Success      200 {object} response.Response{data=appuser.UserListResponse}
// @Router       /api/users/all [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q dto.AdminListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.adminUseCase.List(c.Request.Context(), q.Page, q.PageSize, q.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteUser 管理员删除用户
// @Summary      删除用户
// @Description  管理员账号不可删除；同时删除该用户的收藏夹
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "管理员不可删除"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.adminUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "用户已删除"})
}
