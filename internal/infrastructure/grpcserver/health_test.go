package grpcserver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthServer_CheckOnce(t *testing.T) {
	ctx := context.Background()
	var redisErr error

	s := NewHealthServer(map[string]Checker{
		"mysql": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return redisErr },
	}, 0, zap.NewNop())

	status := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := s.Health().Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.Status
	}

	s.CheckOnce(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(ServiceName+".redis"))

	t.Run("Redis故障时整体不可用", func(t *testing.T) {
		redisErr = errors.New("connection refused")
		s.CheckOnce(ctx)

		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(""))
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(ServiceName))
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(ServiceName+".redis"))
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(ServiceName+".mysql"))
	})

	t.Run("恢复", func(t *testing.T) {
		redisErr = nil
		s.CheckOnce(ctx)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(ServiceName))
	})
}
