package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookmall/internal/application/book"
	appreview "github.com/xiebiao/bookmall/internal/application/review"
	"github.com/xiebiao/bookmall/internal/interface/http/dto"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/internal/interface/http/validation"
	"github.com/xiebiao/bookmall/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listUseCase    *appbook.ListBooksUseCase
	catalogUseCase *appbook.CatalogUseCase
	publishUseCase *appbook.PublishBookUseCase
	updateUseCase  *appbook.UpdateBookUseCase
	deleteUseCase  *appbook.DeleteBookUseCase
	reviewUseCase  *appreview.CreateReviewUseCase
	uploader       ImageUploader
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listUseCase *appbook.ListBooksUseCase,
	catalogUseCase *appbook.CatalogUseCase,
	publishUseCase *appbook.PublishBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	reviewUseCase *appreview.CreateReviewUseCase,
	uploader ImageUploader,
) *BookHandler {
	return &BookHandler{
		listUseCase:    listUseCase,
		catalogUseCase: catalogUseCase,
		publishUseCase: publishUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		reviewUseCase:  reviewUseCase,
		uploader:       uploader,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  关键字匹配书名或作者(不区分大小写)，支持分类、价格区间和排序
// @Tags         图书
// @Produce      json
// @Param        keyword    query string false "关键字"
// @Param        category   query string false "分类"
// @Param        minPrice   query int    false "最低价"
// @Param        maxPrice   query int    false "最高价"
// @Param        sort       query string false "排序" Enums(newest, price_asc, price_desc, top_rated, best_selling)
// @Param        pageNumber query int    false "页码"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     q.PageNumber,
		Keyword:  q.Keyword,
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sort:     q.Sort,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// HomeData 首页书架
// @Summary      首页书架
// @Description  新书、畅销、热门浏览、折扣四个书架
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=appbook.HomeDataResponse}
// @Router       /api/books/public/home-data [get]
func (h *BookHandler) HomeData(c *gin.Context) {
	result, err := h.catalogUseCase.HomeData(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Categories 分类列表
// @Summary      分类列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/books/categories [get]
func (h *BookHandler) Categories(c *gin.Context) {
	result, err := h.catalogUseCase.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AdminListBooks 管理员图书列表（含缺货）
// @Summary      管理员图书列表
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int    false "页码"
// @Param        pageSize query int    false "每页数量"
// @Param        keyword  query string false "关键字"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/books/admin/all [get]
func (h *BookHandler) AdminListBooks(c *gin.Context) {
	var q dto.AdminListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.listUseCase.AdminList(c.Request.Context(), q.Page, q.PageSize, q.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情（浏览量+1）
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetailDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.catalogUseCase.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RelatedBooks 同分类推荐
// @Summary      相关图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Router       /api/books/{id}/related [get]
func (h *BookHandler) RelatedBooks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.catalogUseCase.Related(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// StockLogs 库存流水
// @Summary      库存流水
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "图书ID"
// @Param        limit query int false "条数(默认50，最多200)"
// @Success      200 {object} response.Response{data=[]appbook.StockLogDTO}
// @Router       /api/books/{id}/stock-logs [get]
func (h *BookHandler) StockLogs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	result, err := h.catalogUseCase.StockLogs(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBook 上架图书
// @Summary      上架图书
// @Tags         图书管理
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title         formData string true  "书名"
// @Param        author        formData string true  "作者"
// @Param        description   formData string false "简介"
// @Param        category      formData string true  "分类"
// @Param        price         formData int    true  "售价"
// @Param        originalPrice formData int    false "原价"
// @Param        countInStock  formData int    false "库存"
// @Param        image         formData file   true  "封面"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与校验
	form, ok := h.bindForm(c)
	if !ok {
		return
	}
	if form.Image == nil {
		response.ErrorWithCode(c, 40900, "参数错误: 请上传封面图片")
		return
	}

	// 2. 保存封面
	imageURL, err := h.uploader.SaveImage(form.Image, uploadCategoryBooks)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用应用层用例
	result, err := h.publishUseCase.Execute(c.Request.Context(), form.ToRequest(imageURL, middleware.MustGetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateBook 编辑图书（整体替换，未上传封面时保留原封面）
// @Summary      编辑图书
// @Tags         图书管理
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path     int    true  "图书ID"
// @Param        title         formData string true  "书名"
// @Param        author        formData string true  "作者"
// @Param        description   formData string false "简介"
// @Param        category      formData string true  "分类"
// @Param        price         formData int    true  "售价"
// @Param        originalPrice formData int    false "原价"
// @Param        countInStock  formData int    false "库存"
// @Param        image         formData file   false "封面"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	var imageURL string
	if form.Image != nil {
		url, err := h.uploader.SaveImage(form.Image, uploadCategoryBooks)
		if err != nil {
			response.Error(c, err)
			return
		}
		imageURL = url
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, form.ToRequest(imageURL, middleware.MustGetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 下架图书
// @Summary      下架图书
// @Description  软删除并从所有收藏夹移除，历史订单不受影响
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "图书已删除"})
}

// CreateReview 提交评价
// @Summary      提交评价
// @Description  需要有包含该书且已送达的订单，每人每本书只能评价一次
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "图书ID"
// @Param        request body dto.CreateReviewRequest true "评价"
// @Success      201 {object} response.Response{data=appreview.CreateReviewResponse}
// @Failure      400 {object} response.Response "未购买或已评价"
// @Router       /api/books/{id}/reviews [post]
func (h *BookHandler) CreateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reviewUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		BookID:  id,
		UserID:  middleware.MustGetUserID(c),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *BookHandler) bindForm(c *gin.Context) (*dto.BookForm, bool) {
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validation.Message(err))
		return nil, false
	}
	return &form, true
}
