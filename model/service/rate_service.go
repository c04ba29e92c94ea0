package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/util/constant"
	"github.com/shopspring/decimal"
)

// RateService 模拟汇率服务。真实系统里这一层对接行情源，
// 这里按 base + [0, spread) 均匀采样，刷新带固定模拟延迟。
type RateService struct {
	mu      sync.Mutex
	rate    float64
	loading bool
	done    chan struct{}
	gen     uint64

	base    float64
	spread  float64
	latency time.Duration
}

var (
	rateServiceInstance *RateService
	rateServiceOnce     sync.Once
)

func GetRateService() *RateService {
	rateServiceOnce.Do(func() {
		rateServiceInstance = NewRateService(config.GetRateBase(), config.GetRateSpread(), config.GetRateRefreshLatency())
	})
	return rateServiceInstance
}

func NewRateService(base, spread float64, latency time.Duration) *RateService {
	return &RateService{
		base:    base,
		spread:  spread,
		latency: latency,
	}
}

// Refresh 刷新汇率。同一时刻只允许一次在途刷新，
// 并发调用会折叠为同一次：后来者等待在途刷新完成并复用其结果。
// 跨越 Reset 的刷新结果会被丢弃（返回 RateStaleErr）。
func (s *RateService) Refresh(ctx context.Context) (float64, error) {
	s.mu.Lock()
	if s.loading {
		done := s.done
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-done:
		}
		return s.Rate(), nil
	}
	s.loading = true
	s.done = make(chan struct{})
	startGen := s.gen
	done := s.done
	s.mu.Unlock()

	// 模拟行情源请求耗时
	select {
	case <-ctx.Done():
		s.mu.Lock()
		s.loading = false
		close(done)
		s.mu.Unlock()
		return 0, ctx.Err()
	case <-time.After(s.latency):
	}

	next := s.base + rand.Float64()*s.spread

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	close(done)
	if s.gen != startGen {
		// 会话已重置，陈旧结果不落地
		return 0, constant.RateStaleErr
	}
	s.rate = next
	return next, nil
}

// Rate 当前汇率，从未刷新过时为0
func (s *RateService) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Loading 是否有在途刷新
func (s *RateService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Invalidate 会话重置时调用：清空汇率并递增代数，在途刷新作废
func (s *RateService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.rate = 0
}

// DeriveEthAmount 纯函数：USD金额按汇率换算ETH，保留6位小数。
// 金额或汇率不为正时返回哨兵值 "0"，不做除零运算。
func DeriveEthAmount(usdAmount, rate float64) string {
	if usdAmount <= 0 || rate <= 0 {
		return "0"
	}
	return decimal.NewFromFloat(usdAmount).
		Div(decimal.NewFromFloat(rate)).
		StringFixed(6)
}
