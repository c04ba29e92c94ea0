package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/model/checkout"
	"github.com/assimon/ethpay/notify"
	"github.com/assimon/ethpay/util/constant"
	"github.com/assimon/ethpay/util/log"
)

// OtpService 模拟OTP服务：生成6位验证码，通过通知通道「投递」，
// 并负责与用户提交的验证码做严格比对。验证码只存在内存里。
type OtpService struct {
	mu          sync.Mutex
	secrets     map[checkout.Channel]string
	sending     map[checkout.Channel]bool
	notifier    notify.Notifier
	sendLatency time.Duration
}

var (
	otpServiceInstance *OtpService
	otpServiceOnce     sync.Once
)

func GetOtpService() *OtpService {
	otpServiceOnce.Do(func() {
		otpServiceInstance = NewOtpService(notify.Default(), config.GetOtpSendLatency())
	})
	return otpServiceInstance
}

func NewOtpService(notifier notify.Notifier, sendLatency time.Duration) *OtpService {
	return &OtpService{
		secrets:     make(map[checkout.Channel]string),
		sending:     make(map[checkout.Channel]bool),
		notifier:    notifier,
		sendLatency: sendLatency,
	}
}

// GenerateRandomOtp 生成 [100000, 999999] 的6位验证码
func GenerateRandomOtp() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}

// Request 为通道生成并投递新验证码，旧验证码直接作废。
// 同一通道同一时刻只允许一次在途发送。
func (s *OtpService) Request(ctx context.Context, channel checkout.Channel, destination string) error {
	if !channel.Valid() {
		return fmt.Errorf("未知的验证通道: %s", channel)
	}
	if destination == "" {
		return constant.OtpDestinationErr
	}

	s.mu.Lock()
	if s.sending[channel] {
		s.mu.Unlock()
		return constant.OtpSendingErr
	}
	s.sending[channel] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending[channel] = false
		s.mu.Unlock()
	}()

	// 模拟网关投递耗时
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.sendLatency):
	}

	code := GenerateRandomOtp()
	log.Sugar.Infof("OTP for %s: %s", channel, code)
	if err := s.notifier.Alert(fmt.Sprintf("Your %s OTP is: %s", channel, code)); err != nil {
		log.Sugar.Errorf("[otp] 投递失败 channel=%s err=%v", channel, err)
		return &constant.OtpSendError{Channel: string(channel)}
	}

	s.mu.Lock()
	s.secrets[channel] = code
	s.mu.Unlock()
	return nil
}

// Verify 严格字符串比对，不做裁剪或大小写折叠。
// 从未请求过验证码的通道永远验证失败。
func (s *OtpService) Verify(channel checkout.Channel, submitted string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret := s.secrets[channel]
	if secret == "" || submitted != secret {
		return &constant.OtpMismatchError{Channel: string(channel)}
	}
	return nil
}

// Sending 通道是否有在途的发送
func (s *OtpService) Sending(channel checkout.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending[channel]
}

// Revoke 作废单个通道的验证码
func (s *OtpService) Revoke(channel checkout.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, channel)
}

// Reset 清空全部验证码
func (s *OtpService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets = make(map[checkout.Channel]string)
}
