package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookmall/internal/application/book"
	apporder "github.com/xiebiao/bookmall/internal/application/order"
	appuser "github.com/xiebiao/bookmall/internal/application/user"
	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/event"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/review"
	"github.com/xiebiao/bookmall/internal/domain/stocklog"
	"github.com/xiebiao/bookmall/internal/domain/user"
	"github.com/xiebiao/bookmall/internal/domain/wishlist"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/infrastructure/grpcserver"
	"github.com/xiebiao/bookmall/internal/infrastructure/messaging"
	mongostore "github.com/xiebiao/bookmall/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/bookmall/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookmall/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookmall/internal/infrastructure/storage"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/internal/interface/http/router"
	"github.com/xiebiao/bookmall/pkg/jwt"
	"github.com/xiebiao/bookmall/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine      *gin.Engine
	Health      *grpcserver.HealthServer
	UserService user.Service
}

func newApp(engine *gin.Engine, health *grpcserver.HealthServer, userService user.Service) *App {
	return &App{Engine: engine, Health: health, UserService: userService}
}

// =========================================
// 基础设施
// =========================================

func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*mongo.Database, func(), error) {
	client, db, err := mongostore.NewDatabase(ctx, cfg.Mongo, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return db, cleanup, nil
}

// provideEventPublisher 未启用MQ时事件只写日志
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NewLogPublisher(log), func() {}, nil
	}

	broker, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, err
	}
	return messaging.NewEventPublisher(broker, log), func() { _ = broker.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideUploader(cfg *config.Config, log *zap.Logger) (*storage.LocalUploader, error) {
	return storage.NewLocalUploader(cfg.Server, log)
}

func provideIdempotencyStore(client *goredis.Client, cfg *config.Config) apporder.IdempotencyStore {
	return redis.NewIdempotencyStore(client, cfg.Order.IdempotencyTTL)
}

func provideCatalogCache(client *goredis.Client, cfg *config.Config, log *zap.Logger) *appbook.CatalogCache {
	return appbook.NewCatalogCache(redis.NewCacheStore(client, "catalog"), cfg.Catalog.CacheTTL, log)
}

// provideHealthServer 探活MySQL、Redis、MongoDB
func provideHealthServer(db *gorm.DB, client *goredis.Client, mdb *mongo.Database, log *zap.Logger) *grpcserver.HealthServer {
	checkers := map[string]grpcserver.Checker{
		"mysql": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		"mongo": func(ctx context.Context) error {
			return mdb.Client().Ping(ctx, nil)
		},
	}
	return grpcserver.NewHealthServer(checkers, 10*time.Second, log)
}

// =========================================
// 领域服务与用例（需要从配置取参数的部分）
// =========================================

func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

func provideListBooksUseCase(svc book.Service, cfg *config.Config) *appbook.ListBooksUseCase {
	return appbook.NewListBooksUseCase(svc, cfg.Catalog.PageSize)
}

func provideCatalogUseCase(
	bookRepo book.Repository,
	reviewRepo review.Repository,
	stockLogs stocklog.Repository,
	cache *appbook.CatalogCache,
	cfg *config.Config,
	log *zap.Logger,
) *appbook.CatalogUseCase {
	return appbook.NewCatalogUseCase(bookRepo, reviewRepo, stockLogs, cache, cfg.Catalog, log)
}

func provideDeleteBookUseCase(
	bookRepo book.Repository,
	wishlists wishlist.Repository,
	cache *appbook.CatalogCache,
	cfg *config.Config,
	log *zap.Logger,
) *appbook.DeleteBookUseCase {
	return appbook.NewDeleteBookUseCase(bookRepo, wishlists, cache, cfg.Order.SagaTimeout, log)
}

func provideCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	stockLogs stocklog.Repository,
	tx *mysql.TxManager,
	idempotency apporder.IdempotencyStore,
	events *apporder.EventNotifier,
	cfg *config.Config,
	log *zap.Logger,
) *apporder.CreateOrderUseCase {
	return apporder.NewCreateOrderUseCase(orderRepo, bookRepo, stockLogs, tx, idempotency, events, cfg.Order, log)
}

func provideCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	stockLogs stocklog.Repository,
	tx *mysql.TxManager,
	events *apporder.EventNotifier,
	cfg *config.Config,
	log *zap.Logger,
) *apporder.CancelOrderUseCase {
	return apporder.NewCancelOrderUseCase(orderRepo, bookRepo, stockLogs, tx, events, cfg.Order, log)
}

func provideRequestOTPUseCase(
	userRepo user.Repository,
	otpStore *redis.OTPStore,
	publisher event.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *appuser.RequestOTPUseCase {
	return appuser.NewRequestOTPUseCase(userRepo, otpStore, publisher, cfg.OTP.Expire, log)
}

// Session有效期与Refresh Token一致
func provideLoginUseCase(
	svc user.Service,
	jm *jwt.Manager,
	sessions *redis.SessionStore,
	cfg *config.Config,
	log *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(svc, jm, sessions, cfg.JWT.RefreshTokenExpire, log)
}

func provideRefreshUseCase(
	userRepo user.Repository,
	jm *jwt.Manager,
	sessions *redis.SessionStore,
	cfg *config.Config,
	log *zap.Logger,
) *appuser.RefreshUseCase {
	return appuser.NewRefreshUseCase(userRepo, jm, sessions, cfg.JWT.RefreshTokenExpire, log)
}

func provideAdminUserUseCase(
	userRepo user.Repository,
	wishlists wishlist.Repository,
	sessions *redis.SessionStore,
	cfg *config.Config,
	log *zap.Logger,
) *appuser.AdminUserUseCase {
	return appuser.NewAdminUserUseCase(userRepo, wishlists, sessions, cfg.Order.SagaTimeout, log)
}

// =========================================
// 接口层
// =========================================

func provideEngine(
	cfg *config.Config,
	handlers router.Handlers,
	auth *middleware.AuthMiddleware,
	uploader *storage.LocalUploader,
	log *zap.Logger,
) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.New(handlers, auth, router.Options{
		CORS:      cfg.CORS,
		UploadDir: uploader.Dir(),
		Swagger:   cfg.Server.Mode != gin.ReleaseMode,
		Metrics:   true,
		Tracing:   cfg.Tracing.Enabled,
	}, log)
}
