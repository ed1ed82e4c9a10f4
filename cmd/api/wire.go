//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookmall/internal/application/book"
	apporder "github.com/xiebiao/bookmall/internal/application/order"
	appreview "github.com/xiebiao/bookmall/internal/application/review"
	appuser "github.com/xiebiao/bookmall/internal/application/user"
	appwishlist "github.com/xiebiao/bookmall/internal/application/wishlist"
	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/shared"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	mongostore "github.com/xiebiao/bookmall/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/bookmall/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookmall/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookmall/internal/infrastructure/storage"
	"github.com/xiebiao/bookmall/internal/interface/http/handler"
	"github.com/xiebiao/bookmall/internal/interface/http/middleware"
	"github.com/xiebiao/bookmall/internal/interface/http/router"
)

// infrastructureSet 连接与外部依赖
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideMongo,
	provideEventPublisher,
	provideJWTManager,
	provideUploader,
	provideHealthServer,
)

// repositorySet 仓储与存储
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewOrderRepository,
	mysql.NewReviewRepository,
	mysql.NewStockLogRepository,
	mysql.NewTxManager,
	mongostore.NewWishlistRepository,
	redis.NewSessionStore,
	redis.NewOTPStore,
	provideIdempotencyStore,
	provideCatalogCache,
	wire.Bind(new(shared.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(appuser.OTPStore), new(*redis.OTPStore)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	// 图书
	provideListBooksUseCase,
	provideCatalogUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	provideDeleteBookUseCase,
	appreview.NewCreateReviewUseCase,

	// 订单
	apporder.NewEventNotifier,
	provideCreateOrderUseCase,
	provideCancelOrderUseCase,
	apporder.NewConfirmReceivedUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,

	// 用户
	provideRequestOTPUseCase,
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	provideRefreshUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewPasswordUseCase,
	appuser.NewProfileUseCase,
	provideAdminUserUseCase,
	appwishlist.NewWishlistUseCase,
)

// interfaceSet HTTP处理器、中间件与路由
var interfaceSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewOrderHandler,
	handler.NewUserHandler,
	middleware.NewAuthMiddleware,
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	wire.Bind(new(handler.ImageUploader), new(*storage.LocalUploader)),
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

// InitializeApp 组装整个应用，cleanup按创建的逆序释放连接
func InitializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
