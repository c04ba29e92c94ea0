package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

var (
	AppDebug           bool
	LogDebug           bool // 日志是否输出到控制台
	RuntimePath        string
	LogSavePath        string
	OtpSendLatency     int // OTP发送模拟延迟（毫秒）
	RateRefreshLatency int // 汇率刷新模拟延迟（毫秒）
	RateBase           float64
	RateSpread         float64
	EthRpcEndpoint     string
	EthPrivateKey      string
	EthChainId         int64
	MerchantEthAddress string
	WalletMock         bool
	NotifyUrl          string
	TgBotToken         string
	TgProxy            string
	TgManage           int64
	Proxy              string
)

func Init() {
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	gwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	AppDebug = viper.GetBool("app_debug")
	LogDebug = viper.GetBool("log_debug")
	RuntimePath = fmt.Sprintf(
		"%s%s",
		gwd,
		viper.GetString("runtime_root_path"))
	LogSavePath = fmt.Sprintf(
		"%s%s",
		RuntimePath,
		viper.GetString("log_save_path"))
	OtpSendLatency = viper.GetInt("otp_send_latency_ms")
	if OtpSendLatency <= 0 {
		OtpSendLatency = 1000 // 默认1秒，模拟网关投递耗时
	}
	RateRefreshLatency = viper.GetInt("rate_refresh_latency_ms")
	if RateRefreshLatency <= 0 {
		RateRefreshLatency = 1000
	}
	RateBase = viper.GetFloat64("rate_base")
	RateSpread = viper.GetFloat64("rate_spread")
	// 以太坊节点配置
	EthRpcEndpoint = viper.GetString("eth_rpc_endpoint")
	EthPrivateKey = viper.GetString("eth_private_key")
	EthChainId = viper.GetInt64("eth_chain_id")
	if EthChainId <= 0 {
		EthChainId = 1 // 默认以太坊主网
	}
	MerchantEthAddress = viper.GetString("merchant_eth_address")
	WalletMock = viper.GetBool("wallet_mock")
	NotifyUrl = viper.GetString("notify_url")
	TgBotToken = viper.GetString("tg_bot_token")
	TgProxy = viper.GetString("tg_proxy")
	TgManage = viper.GetInt64("tg_manage")
	Proxy = viper.GetString("proxy")
}

func GetAppVersion() string {
	return "0.0.1"
}

func GetAppName() string {
	appName := viper.GetString("app_name")
	if appName == "" {
		return "ethpay"
	}
	return appName
}

// GetOtpSendLatency OTP发送的模拟延迟
func GetOtpSendLatency() time.Duration {
	if OtpSendLatency <= 0 {
		return time.Second
	}
	return time.Millisecond * time.Duration(OtpSendLatency)
}

// GetRateRefreshLatency 汇率刷新的模拟延迟
func GetRateRefreshLatency() time.Duration {
	if RateRefreshLatency <= 0 {
		return time.Second
	}
	return time.Millisecond * time.Duration(RateRefreshLatency)
}

// GetRateBase 模拟汇率的基准值（USD/ETH）
func GetRateBase() float64 {
	if RateBase <= 0 {
		return 2000
	}
	return RateBase
}

// GetRateSpread 模拟汇率在基准值上的浮动区间
func GetRateSpread() float64 {
	if RateSpread <= 0 {
		return 200
	}
	return RateSpread
}

// GetRateRefreshInterval 汇率后台刷新间隔（秒）
func GetRateRefreshInterval() int {
	interval := viper.GetInt("rate_refresh_interval")
	if interval <= 0 {
		return 60
	}
	return interval
}

func GetEthRpcEndpoint() string {
	return EthRpcEndpoint
}

func GetEthChainId() int64 {
	if EthChainId <= 0 {
		return 1
	}
	return EthChainId
}

func GetMerchantEthAddress() string {
	return MerchantEthAddress
}

func GetNotifyUrl() string {
	return NotifyUrl
}
