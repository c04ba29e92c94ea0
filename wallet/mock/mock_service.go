package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/util/log"
	"github.com/assimon/ethpay/wallet"
)

// 本地联调用的默认账户地址
const defaultAccount = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

// Transfer 已提交的转账记录
type Transfer struct {
	To  string
	Wei *big.Int
}

// MockService 内存钱包提供方，转账即时确认，交易哈希由载荷确定性派生。
// 用于单元测试和无节点环境的联调。
type MockService struct {
	mu        sync.Mutex
	account   string
	nonce     uint64
	transfers []Transfer

	// 故障开关，测试用
	DenyConnect bool
	FailSend    bool
	FailConfirm bool

	requestAccountCalls int
}

// Setup 配置 wallet_mock=true 时以内存钱包顶替以太坊提供方
func Setup() {
	if !config.WalletMock {
		return
	}
	wallet.RegisterProvider(NewMockService())
	log.Sugar.Info("[wallet] 内存模拟钱包已注册，交易不会上链")
}

func NewMockService() *MockService {
	return &MockService{account: defaultAccount}
}

func (s *MockService) GetWalletType() string {
	return wallet.WalletTypeEthereum
}

func (s *MockService) RequestAccounts(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestAccountCalls++
	if s.DenyConnect {
		return nil, errors.New("用户拒绝了账户授权")
	}
	return []string{s.account}, nil
}

func (s *MockService) SendTransaction(_ context.Context, req wallet.TransferRequest) (wallet.PendingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSend {
		return nil, errors.New("交易广播失败")
	}
	if req.Wei == nil || req.Wei.Sign() <= 0 {
		return nil, errors.New("非法的转账金额")
	}
	s.nonce++
	s.transfers = append(s.transfers, Transfer{To: req.To, Wei: new(big.Int).Set(req.Wei)})
	hash := fakeHash(fmt.Sprintf("%s:%s:%d", req.To, req.Wei.String(), s.nonce))
	return &pendingTransaction{hash: hash, blockNumber: s.nonce, failConfirm: s.FailConfirm}, nil
}

// RequestAccountCalls 授权请求的累计次数，测试用
func (s *MockService) RequestAccountCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestAccountCalls
}

// Transfers 全部转账记录的副本
func (s *MockService) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transfer, len(s.transfers))
	copy(out, s.transfers)
	return out
}

func fakeHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "0x" + hex.EncodeToString(sum[:])
}

type pendingTransaction struct {
	hash        string
	blockNumber uint64
	failConfirm bool
}

func (p *pendingTransaction) Hash() string {
	return p.hash
}

func (p *pendingTransaction) Wait(_ context.Context) (*wallet.TransferReceipt, error) {
	if p.failConfirm {
		return nil, errors.New("交易确认超时")
	}
	return &wallet.TransferReceipt{
		TxHash:        p.hash,
		BlockNumber:   p.blockNumber,
		Confirmations: 1,
	}, nil
}
