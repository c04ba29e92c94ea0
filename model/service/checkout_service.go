package service

import (
	"context"
	"sync"

	"github.com/assimon/ethpay/model/checkout"
	"github.com/assimon/ethpay/model/payment"
	"github.com/assimon/ethpay/model/response"
	"github.com/assimon/ethpay/notify"
	"github.com/assimon/ethpay/util/constant"
	"github.com/assimon/ethpay/util/log"
	"github.com/assimon/ethpay/util/math"
	"github.com/golang-module/carbon/v2"
)

// CheckoutService 收银台向导控制器，独占持有会话状态。
// 所有状态变更都经由这里的操作完成，每个新动作先清掉上一条错误。
type CheckoutService struct {
	mu      sync.Mutex
	session *checkout.Session
	otp     *OtpService
	rate    *RateService
	pay     *PaymentService
}

var (
	checkoutServiceInstance *CheckoutService
	checkoutServiceOnce     sync.Once
)

func GetCheckoutService() *CheckoutService {
	checkoutServiceOnce.Do(func() {
		checkoutServiceInstance = NewCheckoutService(GetOtpService(), GetRateService(), GetPaymentService())
	})
	return checkoutServiceInstance
}

func NewCheckoutService(otp *OtpService, rate *RateService, pay *PaymentService) *CheckoutService {
	return &CheckoutService{
		session: checkout.NewSession(),
		otp:     otp,
		rate:    rate,
		pay:     pay,
	}
}

// Session 当前会话，调用方只读
func (s *CheckoutService) Session() *checkout.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *CheckoutService) InputEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	s.session.SetEmail(email)
}

func (s *CheckoutService) InputMobile(mobile string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	s.session.SetMobile(mobile)
}

// InputAmount USD金额统一按2位小数落账
func (s *CheckoutService) InputAmount(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	s.session.SetAmount(math.MustParsePrecFloat64(amount, 2))
}

func (s *CheckoutService) InputOtp(channel checkout.Channel, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SetOtpInput(channel, code)
}

func (s *CheckoutService) SetMerchantAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	s.session.SetMerchantAddress(address)
}

// SendOtp 向通道发送新验证码。发送期间不持有会话锁；
// 发送完成时若会话已被重置，则作废这枚验证码。
func (s *CheckoutService) SendOtp(ctx context.Context, channel checkout.Channel) error {
	s.mu.Lock()
	s.session.ClearError()
	destination := s.session.Destination(channel)
	gen := s.session.Generation
	s.mu.Unlock()

	err := s.otp.Request(ctx, channel, destination)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.session.SetError(err)
		return err
	}
	if s.session.Generation != gen {
		// 发送期间会话被重置，验证码作废
		s.otp.Revoke(channel)
	}
	return nil
}

// VerifyOtp 用会话中已输入的验证码做比对，成功则标记通道已验证
func (s *CheckoutService) VerifyOtp(channel checkout.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	if err := s.otp.Verify(channel, s.session.OtpInput(channel)); err != nil {
		s.session.SetError(err)
		return err
	}
	s.session.MarkVerified(channel)
	return nil
}

// RefreshRate 刷新汇率，陈旧结果静默丢弃
func (s *CheckoutService) RefreshRate(ctx context.Context) (float64, error) {
	rate, err := s.rate.Refresh(ctx)
	if err == constant.RateStaleErr {
		return 0, nil
	}
	return rate, err
}

// Rate 当前汇率
func (s *CheckoutService) Rate() float64 {
	return s.rate.Rate()
}

// EthAmount 当前USD金额按当前汇率派生的ETH金额
func (s *CheckoutService) EthAmount() string {
	s.mu.Lock()
	amount := s.session.Details.Amount
	s.mu.Unlock()
	return DeriveEthAmount(amount, s.rate.Rate())
}

// AdvanceToMethod 第一步 → 第二步
func (s *CheckoutService) AdvanceToMethod() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	if err := s.session.AdvanceToMethod(); err != nil {
		s.session.SetError(err)
		return err
	}
	return nil
}

// SelectPaymentMethod 选择支付方式
func (s *CheckoutService) SelectPaymentMethod(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := payment.GetMethodById(id); !ok {
		s.session.SetError(constant.MethodNotFoundErr)
		return constant.MethodNotFoundErr
	}
	s.session.SelectMethod(id)
	return nil
}

// Submit 提交支付。成功进入完成页并回调商户；
// 失败停留在第二步，错误写入会话错误槽，允许重试或返回。
func (s *CheckoutService) Submit(ctx context.Context) (*response.PaymentReceiptResponse, error) {
	s.mu.Lock()
	s.session.ClearError()
	if s.session.Step != checkout.StepMethod {
		err := constant.StepErr
		s.session.SetError(err)
		s.mu.Unlock()
		return nil, err
	}
	if s.session.SelectedMethod == "" {
		err := constant.MethodNotSelectedErr
		s.session.SetError(err)
		s.mu.Unlock()
		return nil, err
	}
	methodId := s.session.SelectedMethod
	merchantAddress := s.session.MerchantAddress
	amount := s.session.Details.Amount
	s.mu.Unlock()

	rate := s.rate.Rate()
	ethAmount := DeriveEthAmount(amount, rate)

	result, err := s.pay.Submit(ctx, methodId, merchantAddress, ethAmount)

	s.mu.Lock()
	if err != nil {
		s.session.SetError(err)
		s.mu.Unlock()
		return nil, err
	}
	s.session.Complete()
	receipt := &response.PaymentReceiptResponse{
		SessionId: s.session.ID,
		Method:    methodId,
		Amount:    amount,
		Rate:      rate,
		TxHash:    result.TxHash,
		PaidAt:    carbon.Now().Timestamp(),
	}
	if result.Wei != nil {
		receipt.EthAmount = result.EthAmount
		receipt.Wei = result.Wei.String()
	}
	s.mu.Unlock()

	if err := notify.SendMerchantCallback(receipt); err != nil {
		log.Sugar.Warnf("[checkout] 商户回调未成功 session=%s err=%v", receipt.SessionId, err)
	}
	return receipt, nil
}

// Back 第二步退回第一步
func (s *CheckoutService) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearError()
	if err := s.session.Back(); err != nil {
		s.session.SetError(err)
		return err
	}
	return nil
}

// Reset 「再支付一笔」：会话、验证码、汇率全部回到初始状态
func (s *CheckoutService) Reset() {
	s.mu.Lock()
	s.session.Reset()
	s.mu.Unlock()
	s.otp.Reset()
	s.rate.Invalidate()
}
