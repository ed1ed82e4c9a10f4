package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_Execute_Success(t *testing.T) {
	var trace []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			trace = append(trace, name)
			return nil
		}
	}

	err := NewSaga("delete-user", time.Second, nil).
		AddStep("删除收藏夹", record("wishlist"), record("restore-wishlist")).
		AddStep("删除用户", record("user"), record("restore-user")).
		Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"wishlist", "user"}, trace, "成功时不应执行补偿")
}

func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	var trace []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			trace = append(trace, name)
			return nil
		}
	}
	boom := errors.New("mysql down")

	err := NewSaga("delete-book", time.Second, nil).
		AddStep("下架图书", record("soft-delete"), record("restore-book")).
		AddStep("清理收藏", record("pull-wishlists"), record("noop")).
		AddStep("失败步骤", func(context.Context) error { return boom }, record("never")).
		Execute(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t,
		[]string{"soft-delete", "pull-wishlists", "noop", "restore-book"},
		trace,
		"补偿应逆序执行，且失败步骤本身不补偿",
	)
}

func TestSaga_Execute_CompensateErrorDoesNotStop(t *testing.T) {
	restored := false

	err := NewSaga("test", 0, nil).
		AddStep("a", func(context.Context) error { return nil }, func(context.Context) error {
			restored = true
			return nil
		}).
		AddStep("b", func(context.Context) error { return nil }, func(context.Context) error {
			return errors.New("compensate failed")
		}).
		AddStep("c", func(context.Context) error { return errors.New("fail") }, nil).
		Execute(context.Background())

	require.Error(t, err)
	assert.True(t, restored, "后续补偿失败不影响更早步骤的补偿")
}

func TestSaga_Execute_Timeout(t *testing.T) {
	compensated := false

	err := NewSaga("slow", 20*time.Millisecond, nil).
		AddStep("slow", func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}, func(context.Context) error {
			compensated = true
			return nil
		}).
		Execute(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, compensated, "未完成的步骤不补偿")
}
