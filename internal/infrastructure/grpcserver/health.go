// Package grpcserver gRPC健康检查服务（grpc.health.v1）
//
// 供负载均衡和编排系统探活：定期检查MySQL、Redis、MongoDB，
// 任一依赖不可用时整体状态为NOT_SERVING。
package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 整体服务名，空字符串表示服务器整体状态
const ServiceName = "bookmall.api"

// Checker 依赖检查函数
type Checker func(ctx context.Context) error

// HealthServer 健康检查服务器
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	checkers map[string]Checker
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	status map[string]bool
	stop   chan struct{}
	once   sync.Once
}

// NewHealthServer 创建健康检查服务器
func NewHealthServer(checkers map[string]Checker, interval time.Duration, logger *zap.Logger) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		server:   srv,
		health:   hs,
		checkers: checkers,
		interval: interval,
		logger:   logger,
		status:   make(map[string]bool, len(checkers)),
		stop:     make(chan struct{}),
	}
}

// Health 底层health.Server（测试使用）
func (s *HealthServer) Health() *health.Server {
	return s.health
}

// CheckOnce 执行一轮依赖检查并更新状态
func (s *HealthServer) CheckOnce(ctx context.Context) {
	allUp := true
	for name, check := range s.checkers {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(cctx)
		cancel()

		up := err == nil
		allUp = allUp && up
		s.setStatus(name, up, err)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !allUp {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	s.health.SetServingStatus(ServiceName, overall)
}

func (s *HealthServer) setStatus(name string, up bool, err error) {
	s.mu.Lock()
	prev, seen := s.status[name]
	s.status[name] = up
	s.mu.Unlock()

	st := healthpb.HealthCheckResponse_SERVING
	if !up {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName+"."+name, st)

	if seen && prev == up {
		return
	}
	if up {
		s.logger.Info("依赖状态正常", zap.String("dependency", name))
	} else {
		s.logger.Warn("依赖不可用", zap.String("dependency", name), zap.Error(err))
	}
}

// Serve 监听端口并阻塞，同时后台定期检查
func (s *HealthServer) Serve(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听gRPC端口失败: %w", err)
	}

	s.CheckOnce(context.Background())
	go s.loop()

	s.logger.Info("gRPC健康检查服务启动", zap.Int("port", port))
	return s.server.Serve(lis)
}

func (s *HealthServer) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.CheckOnce(context.Background())
		}
	}
}

// Stop 优雅关闭
func (s *HealthServer) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.server.GracefulStop()
	})
}
