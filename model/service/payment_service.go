package service

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/assimon/ethpay/model/payment"
	"github.com/assimon/ethpay/util/constant"
	"github.com/assimon/ethpay/util/log"
	"github.com/assimon/ethpay/util/math"
	"github.com/assimon/ethpay/wallet"
)

// 单次提交尝试的状态机：Idle → Processing → {Succeeded, Failed}
const (
	StatusIdle = iota
	StatusProcessing
	StatusSucceeded
	StatusFailed
)

// PaymentService 支付提交控制器。Processing 期间拒绝重复提交；
// 失败后允许重试。对调用方而言提交是原子的：要么拿到已确认的
// 交易哈希，要么链上什么都没发生。
type PaymentService struct {
	mu     sync.Mutex
	status int
}

// PaymentResult 提交成功的结果
type PaymentResult struct {
	TxHash    string
	EthAmount string
	Wei       *big.Int
}

var (
	paymentServiceInstance *PaymentService
	paymentServiceOnce     sync.Once
)

func GetPaymentService() *PaymentService {
	paymentServiceOnce.Do(func() {
		paymentServiceInstance = NewPaymentService()
	})
	return paymentServiceInstance
}

func NewPaymentService() *PaymentService {
	return &PaymentService{status: StatusIdle}
}

// Status 当前提交状态
func (s *PaymentService) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit 按支付方式提交。非加密货币通道为占位实现，直接成功；
// ETH通道走钱包授权、精确换算、广播、等待确认的完整路径。
func (s *PaymentService) Submit(ctx context.Context, methodId, merchantAddress, ethAmount string) (*PaymentResult, error) {
	method, ok := payment.GetMethodById(methodId)
	if !ok {
		return nil, constant.MethodNotFoundErr
	}

	s.mu.Lock()
	if s.status == StatusProcessing {
		s.mu.Unlock()
		return nil, constant.ProcessingErr
	}
	s.status = StatusProcessing
	s.mu.Unlock()

	result, err := s.submit(ctx, method, merchantAddress, ethAmount)

	s.mu.Lock()
	if err != nil {
		s.status = StatusFailed
	} else {
		s.status = StatusSucceeded
	}
	s.mu.Unlock()
	return result, err
}

func (s *PaymentService) submit(ctx context.Context, method payment.Method, merchantAddress, ethAmount string) (*PaymentResult, error) {
	if method.Type != payment.TypeCrypto {
		// 卡与银行转账通道为演示占位，不接真实清算
		return &PaymentResult{}, nil
	}

	// 校验顺序与原流程一致：缺少商户地址时不碰钱包
	if strings.TrimSpace(merchantAddress) == "" {
		return nil, constant.MerchantAddressErr
	}

	provider := wallet.GetProvider(wallet.WalletTypeEthereum)
	if provider == nil {
		return nil, constant.WalletUnavailableErr
	}

	if _, err := provider.RequestAccounts(ctx); err != nil {
		log.Sugar.Warnf("[payment] 钱包授权失败: %v", err)
		return nil, constant.WalletConnectErr
	}

	// 链上金额必须精确换算，不走浮点
	wei, err := math.EthToWei(ethAmount)
	if err != nil {
		log.Sugar.Warnf("[payment] 金额换算失败 eth=%s err=%v", ethAmount, err)
		return nil, constant.PayAmountErr
	}
	if wei.Sign() <= 0 {
		return nil, constant.PayAmountErr
	}

	pending, err := provider.SendTransaction(ctx, wallet.TransferRequest{To: merchantAddress, Wei: wei})
	if err != nil {
		log.Sugar.Errorf("[payment] 交易提交失败: %v", err)
		return nil, constant.TransactionFailedErr
	}

	receipt, err := pending.Wait(ctx)
	if err != nil {
		log.Sugar.Errorf("[payment] 交易确认失败 hash=%s err=%v", pending.Hash(), err)
		return nil, constant.TransactionFailedErr
	}

	log.Sugar.Infof("[payment] 交易已确认 hash=%s block=%d", receipt.TxHash, receipt.BlockNumber)
	return &PaymentResult{
		TxHash:    receipt.TxHash,
		EthAmount: ethAmount,
		Wei:       wei,
	}, nil
}
