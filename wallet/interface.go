package wallet

import (
	"context"
	"math/big"
	"sync"
)

// 钱包类型常量
const (
	WalletTypeEthereum = "ETH" // 以太坊
)

// TransferRequest 原生币转账请求，金额为精确的最小单位（wei）
type TransferRequest struct {
	To  string   // 收款地址
	Wei *big.Int // 转账金额，wei
}

// TransferReceipt 链上确认回执
type TransferReceipt struct {
	TxHash        string // 交易哈希
	BlockNumber   uint64 // 所在区块
	Confirmations int    // 确认数
}

// PendingTransaction 已广播、等待确认的交易句柄
type PendingTransaction interface {
	// Hash 交易哈希
	Hash() string

	// Wait 阻塞等待链上确认（1个确认即可）
	Wait(ctx context.Context) (*TransferReceipt, error)
}

// Provider 钱包提供方接口。未注册任何提供方等价于
// 浏览器环境中不存在钱包扩展，是可检测的独立错误。
type Provider interface {
	// GetWalletType 获取钱包类型
	GetWalletType() string

	// RequestAccounts 请求账户授权，拒绝授权返回错误
	RequestAccounts(ctx context.Context) ([]string, error)

	// SendTransaction 签名并广播原生币转账
	SendTransaction(ctx context.Context, req TransferRequest) (PendingTransaction, error)
}

// Factory 钱包提供方工厂
type Factory struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

var defaultFactory *Factory

func init() {
	defaultFactory = &Factory{
		providers: make(map[string]Provider),
	}
}

// RegisterProvider 注册钱包提供方，同类型后注册者覆盖先注册者
func RegisterProvider(provider Provider) {
	defaultFactory.mu.Lock()
	defer defaultFactory.mu.Unlock()
	defaultFactory.providers[provider.GetWalletType()] = provider
}

// GetProvider 获取钱包提供方，未注册返回nil
func GetProvider(walletType string) Provider {
	defaultFactory.mu.RLock()
	defer defaultFactory.mu.RUnlock()
	return defaultFactory.providers[walletType]
}

// UnregisterProvider 注销钱包提供方
func UnregisterProvider(walletType string) {
	defaultFactory.mu.Lock()
	defer defaultFactory.mu.Unlock()
	delete(defaultFactory.providers, walletType)
}

// GetAllWalletTypes 获取所有已注册的钱包类型
func GetAllWalletTypes() []string {
	defaultFactory.mu.RLock()
	defer defaultFactory.mu.RUnlock()

	walletTypes := make([]string, 0, len(defaultFactory.providers))
	for walletType := range defaultFactory.providers {
		walletTypes = append(walletTypes, walletType)
	}
	return walletTypes
}
