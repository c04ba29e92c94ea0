package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/assimon/ethpay/util/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveEthAmount(t *testing.T) {
	assert.Equal(t, "0.050000", DeriveEthAmount(100, 2000))
	assert.Equal(t, "1.000000", DeriveEthAmount(2000, 2000))
	assert.Equal(t, "0.000500", DeriveEthAmount(1, 2000))
}

func TestDeriveEthAmountSentinel(t *testing.T) {
	assert.Equal(t, "0", DeriveEthAmount(0, 2000))
	assert.Equal(t, "0", DeriveEthAmount(-5, 2000))
	assert.Equal(t, "0", DeriveEthAmount(100, 0))
	assert.Equal(t, "0", DeriveEthAmount(100, -1))
}

func TestDeriveEthAmountMonotonic(t *testing.T) {
	prev := 0.0
	for _, usd := range []float64{1, 10, 50, 100, 500, 1000} {
		v, err := strconv.ParseFloat(DeriveEthAmount(usd, 2000), 64)
		require.NoError(t, err)
		assert.Greater(t, v, prev, "usd=%v", usd)
		prev = v
	}
}

func TestRateRefreshBounds(t *testing.T) {
	svc := NewRateService(2000, 200, 0)
	for i := 0; i < 20; i++ {
		rate, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rate, 2000.0)
		assert.Less(t, rate, 2200.0)
		assert.Equal(t, rate, svc.Rate())
	}
}

func TestRateRefreshSingleFlight(t *testing.T) {
	svc := NewRateService(2000, 200, 30*time.Millisecond)

	var wg sync.WaitGroup
	results := make([]float64, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rate, err := svc.Refresh(context.Background())
			require.NoError(t, err)
			results[i] = rate
		}(i)
	}
	wg.Wait()

	// 并发刷新折叠为一次，两个调用拿到同一个结果
	assert.NotZero(t, results[0])
	assert.Equal(t, results[0], results[1])
}

func TestRateLoadingFlag(t *testing.T) {
	svc := NewRateService(2000, 200, 50*time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Refresh(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	assert.True(t, svc.Loading())
	<-done
	assert.False(t, svc.Loading())
}

func TestRateStaleResultDiscarded(t *testing.T) {
	svc := NewRateService(2000, 200, 50*time.Millisecond)
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	// 会话重置：在途刷新的结果必须被丢弃
	svc.Invalidate()

	assert.ErrorIs(t, <-errCh, constant.RateStaleErr)
	assert.Zero(t, svc.Rate())
}

func TestRateRefreshCancelled(t *testing.T) {
	svc := NewRateService(2000, 200, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, svc.Loading())
}
