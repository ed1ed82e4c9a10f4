// Package router 注册HTTP路由和全局中间件
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/infrastructure/storage"
	"github.com/xiebiao/bookmall/internal/interface/http/dto"
	"github.com/xiebiao/bookmall/internal/interface/http/handler"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/pkg/response"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Auth  *handler.AuthHandler
	Book  *handler.BookHandler
	Order *handler.OrderHandler
	User  *handler.UserHandler
}

// Options 引擎选项
type Options struct {
	CORS      config.CORSConfig
	UploadDir string // 为空时不挂载/uploads
	Swagger   bool
	Metrics   bool
	Tracing   bool
}

// New 创建gin引擎
// 中间件顺序：Recovery → RequestID → Tracing → Metrics → 日志 → CORS
func New(h Handlers, auth *middleware.AuthMiddleware, opts Options, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(gin.Recovery(), middleware.RequestID())
	if opts.Tracing {
		r.Use(middleware.Tracing())
	}
	if opts.Metrics {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.RequestLogger(logger), cors.New(corsConfig(opts.CORS)))

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if opts.Swagger {
		// 访问 /swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.UploadDir != "" {
		r.Static(storage.URLPrefix, opts.UploadDir)
	}

	Register(r, h, auth)
	return r
}

// Register 注册业务路由
func Register(r gin.IRouter, h Handlers, auth *middleware.AuthMiddleware) {
	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireAdmin()

	api := r.Group("/api")

	// 认证
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/request-otp", h.Auth.RequestOTP)
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/google-login", h.Auth.GoogleLogin)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
		authGroup.GET("/profile", requireAuth, h.Auth.Profile)
	}

	// 图书
	books := api.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/public/home-data", h.Book.HomeData)
		books.GET("/categories", h.Book.Categories)
		books.GET("/:id", h.Book.GetBook)
		books.GET("/:id/related", h.Book.RelatedBooks)
		books.POST("/:id/reviews", requireAuth, h.Book.CreateReview)

		admin := books.Group("", requireAuth, requireAdmin)
		admin.GET("/admin/all", h.Book.AdminListBooks)
		admin.GET("/:id/stock-logs", h.Book.StockLogs)
		admin.POST("", h.Book.CreateBook)
		admin.PUT("/:id", h.Book.UpdateBook)
		admin.DELETE("/:id", h.Book.DeleteBook)
	}

	// 订单
	orders := api.Group("/orders", requireAuth)
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("/my-orders", h.Order.MyOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PUT("/:id/cancel", h.Order.CancelOrder)
		orders.PUT("/:id/received", h.Order.ConfirmReceived)
		orders.PUT("/:id/status", requireAdmin, h.Order.UpdateStatus)
		orders.GET("", requireAdmin, h.Order.ListOrders)
	}

	// 用户
	users := api.Group("/users", requireAuth)
	{
		users.GET("/profile", h.User.GetProfile)
		users.PUT("/profile", h.User.UpdateProfile)
		users.PUT("/avatar", h.User.UpdateAvatar)
		users.PUT("/change-password", h.User.ChangePassword)

		users.GET("/wishlist/my", h.User.MyWishlist)
		users.POST("/wishlist/add", h.User.AddToWishlist)
		users.DELETE("/wishlist/:id", h.User.RemoveFromWishlist)

		users.GET("/all", requireAdmin, h.User.ListUsers)
		users.DELETE("/:id", requireAdmin, h.User.DeleteUser)
	}
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", dto.IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowOrigins
	c.AllowCredentials = true
	return c
}
