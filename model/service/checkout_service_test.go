package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/assimon/ethpay/model/checkout"
	"github.com/assimon/ethpay/util/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCheckout 组装确定性的收银台：零延迟OTP、固定汇率2000
func newTestCheckout() (*CheckoutService, *recordingNotifier) {
	rec := &recordingNotifier{}
	svc := NewCheckoutService(
		NewOtpService(rec, 0),
		NewRateService(2000, 0, 0),
		NewPaymentService(),
	)
	return svc, rec
}

// passDetailsStep 走完第一步：填写、验证两个通道、输入金额
func passDetailsStep(t *testing.T, svc *CheckoutService, rec *recordingNotifier, amount float64) {
	t.Helper()
	ctx := context.Background()

	svc.InputEmail("user@example.com")
	require.NoError(t, svc.SendOtp(ctx, checkout.ChannelEmail))
	svc.InputOtp(checkout.ChannelEmail, rec.lastOtp(t))
	require.NoError(t, svc.VerifyOtp(checkout.ChannelEmail))

	svc.InputMobile("13800138000")
	require.NoError(t, svc.SendOtp(ctx, checkout.ChannelMobile))
	svc.InputOtp(checkout.ChannelMobile, rec.lastOtp(t))
	require.NoError(t, svc.VerifyOtp(checkout.ChannelMobile))

	svc.InputAmount(amount)
	_, err := svc.RefreshRate(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.AdvanceToMethod())
}

func TestCheckoutHappyPathCrypto(t *testing.T) {
	m := withMockWallet(t)
	svc, rec := newTestCheckout()
	svc.SetMerchantAddress(merchantAddress)

	passDetailsStep(t, svc, rec, 100)
	assert.Equal(t, checkout.StepMethod, svc.Session().Step)
	assert.Equal(t, 2000.0, svc.Rate())
	assert.Equal(t, "0.050000", svc.EthAmount())

	require.NoError(t, svc.SelectPaymentMethod("eth"))
	receipt, err := svc.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, checkout.StepComplete, svc.Session().Step)
	assert.Equal(t, "eth", receipt.Method)
	assert.Equal(t, 100.0, receipt.Amount)
	assert.Equal(t, 2000.0, receipt.Rate)
	assert.Equal(t, "0.050000", receipt.EthAmount)
	assert.Equal(t, "50000000000000000", receipt.Wei)
	assert.NotEmpty(t, receipt.TxHash)
	require.Len(t, m.Transfers(), 1)
}

func TestCheckoutNonCryptoImmediateSuccess(t *testing.T) {
	svc, rec := newTestCheckout()
	passDetailsStep(t, svc, rec, 42)

	require.NoError(t, svc.SelectPaymentMethod("card"))
	receipt, err := svc.Submit(context.Background())
	require.NoError(t, err)

	// 非加密货币通道提交即成功，无链上字段
	assert.Equal(t, checkout.StepComplete, svc.Session().Step)
	assert.Empty(t, receipt.TxHash)
	assert.Empty(t, receipt.Wei)
}

func TestCheckoutEditRevokesVerification(t *testing.T) {
	svc, rec := newTestCheckout()
	ctx := context.Background()

	svc.InputEmail("user@example.com")
	require.NoError(t, svc.SendOtp(ctx, checkout.ChannelEmail))
	svc.InputOtp(checkout.ChannelEmail, rec.lastOtp(t))
	require.NoError(t, svc.VerifyOtp(checkout.ChannelEmail))
	require.True(t, svc.Session().Verified(checkout.ChannelEmail))

	svc.InputEmail("other@example.com")
	assert.False(t, svc.Session().Verified(checkout.ChannelEmail))
}

func TestCheckoutVerifyOtpMismatchSetsError(t *testing.T) {
	svc, rec := newTestCheckout()
	ctx := context.Background()

	svc.InputEmail("user@example.com")
	require.NoError(t, svc.SendOtp(ctx, checkout.ChannelEmail))
	svc.InputOtp(checkout.ChannelEmail, wrongCode(rec.lastOtp(t)))

	err := svc.VerifyOtp(checkout.ChannelEmail)
	require.Error(t, err)
	assert.Equal(t, "Invalid email OTP. Please try again.", svc.Session().Err)
	assert.False(t, svc.Session().Verified(checkout.ChannelEmail))
}

func TestCheckoutAdvanceBlocked(t *testing.T) {
	svc, _ := newTestCheckout()
	svc.InputEmail("user@example.com")
	svc.InputMobile("13800138000")
	svc.InputAmount(100)

	// 两个通道都未验证，第一步不放行
	err := svc.AdvanceToMethod()
	require.Error(t, err)
	assert.Equal(t, checkout.StepDetails, svc.Session().Step)
	assert.NotEmpty(t, svc.Session().Err)
}

func TestCheckoutSubmitWithoutMethod(t *testing.T) {
	svc, rec := newTestCheckout()
	passDetailsStep(t, svc, rec, 100)

	_, err := svc.Submit(context.Background())
	assert.ErrorIs(t, err, constant.MethodNotSelectedErr)
	assert.Equal(t, checkout.StepMethod, svc.Session().Step)
}

func TestCheckoutCryptoFailureStaysOnMethodStep(t *testing.T) {
	m := withMockWallet(t)
	m.FailSend = true
	svc, rec := newTestCheckout()
	svc.SetMerchantAddress(merchantAddress)
	passDetailsStep(t, svc, rec, 100)
	require.NoError(t, svc.SelectPaymentMethod("eth"))

	_, err := svc.Submit(context.Background())
	require.Error(t, err)

	// 失败停留在第二步并展示错误，允许重试
	assert.Equal(t, checkout.StepMethod, svc.Session().Step)
	assert.Equal(t, "Transaction failed. Please try again.", svc.Session().Err)

	m.FailSend = false
	receipt, err := svc.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)
	assert.Equal(t, checkout.StepComplete, svc.Session().Step)
}

func TestCheckoutCryptoMissingAddress(t *testing.T) {
	m := withMockWallet(t)
	svc, rec := newTestCheckout()
	passDetailsStep(t, svc, rec, 100)
	require.NoError(t, svc.SelectPaymentMethod("eth"))

	_, err := svc.Submit(context.Background())
	assert.ErrorIs(t, err, constant.MerchantAddressErr)
	assert.Zero(t, m.RequestAccountCalls())
}

func TestCheckoutBack(t *testing.T) {
	svc, rec := newTestCheckout()
	passDetailsStep(t, svc, rec, 100)
	require.NoError(t, svc.Back())
	assert.Equal(t, checkout.StepDetails, svc.Session().Step)

	// 返回不吊销已验证的通道
	assert.True(t, svc.Session().Verified(checkout.ChannelEmail))
}

func TestCheckoutReset(t *testing.T) {
	svc, rec := newTestCheckout()
	svc.SetMerchantAddress(merchantAddress)
	passDetailsStep(t, svc, rec, 100)
	require.NoError(t, svc.SelectPaymentMethod("card"))
	oldCode := rec.lastOtp(t)

	svc.Reset()

	sess := svc.Session()
	assert.Equal(t, checkout.StepDetails, sess.Step)
	assert.Empty(t, sess.Details.Email)
	assert.Empty(t, sess.SelectedMethod)
	assert.Empty(t, sess.MerchantAddress)
	assert.Zero(t, svc.Rate())

	// 重置后旧验证码全部作废
	svc.InputOtp(checkout.ChannelMobile, oldCode)
	assert.Error(t, svc.VerifyOtp(checkout.ChannelMobile))
}

func TestCheckoutStaleOtpDiscardedAfterReset(t *testing.T) {
	rec := &recordingNotifier{}
	svc := NewCheckoutService(
		NewOtpService(rec, 30*time.Millisecond),
		NewRateService(2000, 0, 0),
		NewPaymentService(),
	)
	svc.InputEmail("user@example.com")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.SendOtp(context.Background(), checkout.ChannelEmail)
	}()

	time.Sleep(10 * time.Millisecond)
	svc.Reset()
	wg.Wait()

	// 发送期间会话被重置，迟到的验证码不可用
	svc.InputEmail("user@example.com")
	svc.InputOtp(checkout.ChannelEmail, rec.lastOtp(t))
	assert.Error(t, svc.VerifyOtp(checkout.ChannelEmail))
}
