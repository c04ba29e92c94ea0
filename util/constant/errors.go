package constant

import (
	"errors"
	"fmt"
)

// 结算流程的错误集合。所有面向用户的文案统一收口在这里，
// 会话同一时刻只展示一条错误（见 model/checkout 的错误槽）。
var (
	MerchantAddressErr   = errors.New("Merchant Ethereum address is required for ETH payments")
	WalletUnavailableErr = errors.New("No wallet provider available, please install one to make ETH payments")
	WalletConnectErr     = errors.New("Failed to connect to wallet provider")
	TransactionFailedErr = errors.New("Transaction failed. Please try again.")
	PayAmountErr         = errors.New("支付金额不合法")
	MethodNotFoundErr    = errors.New("未知的支付方式")
	MethodNotSelectedErr = errors.New("Please select a payment method")
	ProcessingErr        = errors.New("支付正在处理中，请勿重复提交")
	OtpSendingErr        = errors.New("验证码发送中，请稍候")
	OtpDestinationErr    = errors.New("请先填写需要验证的联系方式")
	StepErr              = errors.New("当前步骤不允许该操作")
	RateStaleErr         = errors.New("汇率刷新结果已过期，被丢弃")
)

// OtpMismatchError 验证码不匹配，按通道报错
type OtpMismatchError struct {
	Channel string
}

func (e *OtpMismatchError) Error() string {
	return fmt.Sprintf("Invalid %s OTP. Please try again.", e.Channel)
}

// OtpSendError 验证码投递失败
type OtpSendError struct {
	Channel string
}

func (e *OtpSendError) Error() string {
	return fmt.Sprintf("Failed to send OTP to %s", e.Channel)
}
