package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckAll_AllHealthy(t *testing.T) {
	hc := NewHealthChecker(zap.NewNop().Sugar())
	hc.AddCheck("store", func(ctx context.Context) (bool, error) {
		return true, nil
	}, time.Minute, time.Second)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["store"])
}

func TestCheckAll_FailureMarksUnhealthy(t *testing.T) {
	hc := NewHealthChecker(zap.NewNop().Sugar())
	hc.AddCheck("store", func(ctx context.Context) (bool, error) {
		return false, errors.New("connection refused")
	}, time.Minute, time.Second)
	hc.AddCheck("other", func(ctx context.Context) (bool, error) {
		return true, nil
	}, time.Minute, time.Second)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "connection refused", status.Checks["store"])
	assert.Equal(t, "healthy", status.Checks["other"])
}

func TestCheckAll_UnhealthyWithoutError(t *testing.T) {
	hc := NewHealthChecker(zap.NewNop().Sugar())
	hc.AddCheck("store", func(ctx context.Context) (bool, error) {
		return false, nil
	}, time.Minute, time.Second)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "check failed", status.Checks["store"])
}

func TestCheckAll_AppliesTimeout(t *testing.T) {
	hc := NewHealthChecker(zap.NewNop().Sugar())
	hc.AddCheck("slow", func(ctx context.Context) (bool, error) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(time.Second):
			return true, nil
		}
	}, time.Minute, 10*time.Millisecond)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
}

func TestStartBackgroundChecks_ProbesUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	hc := NewHealthChecker(zap.NewNop().Sugar())
	hc.AddCheck("store", func(ctx context.Context) (bool, error) {
		calls.Add(1)
		return false, errors.New("still down")
	}, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	hc.StartBackgroundChecks(ctx)

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "probing should stop after cancellation")
}
