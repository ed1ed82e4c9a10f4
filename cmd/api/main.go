// @title           Bookmall API
// @version         1.0
// @description     在线书店后端：图书目录、订单、评价、收藏夹与账号管理
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/xiebiao/bookmall/docs"
	appuser "github.com/xiebiao/bookmall/internal/application/user"
	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/infrastructure/logger"
	"github.com/xiebiao/bookmall/internal/interface/http/validation"
	"github.com/xiebiao/bookmall/pkg/response"
	"github.com/xiebiao/bookmall/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	response.SetLogger(zlog)
	if err := validation.Setup(); err != nil {
		return fmt.Errorf("注册校验规则失败: %w", err)
	}

	// 3. 链路追踪
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    true,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zlog.Warn("关闭TracerProvider失败", zap.Error(err))
			}
		}()
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := appuser.BootstrapAdmin(ctx, app.UserService, cfg.Admin, zlog); err != nil {
		return fmt.Errorf("初始化管理员失败: %w", err)
	}

	// 5. gRPC健康检查
	if cfg.GRPC.Port > 0 {
		go func() {
			if err := app.Health.Serve(cfg.GRPC.Port); err != nil {
				zlog.Error("gRPC健康检查服务退出", zap.Error(err))
			}
		}()
		defer app.Health.Stop()
	}

	// 6. HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 7. 优雅关闭
	zlog.Info("收到退出信号，开始关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP服务关闭失败: %w", err)
	}
	zlog.Info("服务已停止")
	return nil
}
