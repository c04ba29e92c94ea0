package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/util/log"
	"github.com/assimon/ethpay/wallet"
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// 原生币转账的固定gas上限
const transferGasLimit = 21000

// 回执轮询间隔
const receiptPollInterval = time.Second * 2

// EthereumService 基于本地私钥签名的以太坊钱包提供方，
// 等价于浏览器中持有密钥、签名并广播交易的钱包扩展。
type EthereumService struct {
	endpoint string
	chainId  *big.Int
	key      *ecdsa.PrivateKey
	address  common.Address

	mu     sync.Mutex
	client *ethclient.Client // 懒连接
}

var (
	ethereumServiceInstance *EthereumService
	ethereumServiceOnce     sync.Once
)

// Setup 按配置注册以太坊钱包提供方。未配置节点或私钥时不注册，
// 此时支付控制器会将ETH支付判定为「无可用钱包」。
func Setup() {
	if config.GetEthRpcEndpoint() == "" || config.EthPrivateKey == "" {
		log.Sugar.Info("[wallet] 未配置以太坊节点或私钥，ETH钱包不可用")
		return
	}
	key, err := parsePrivateKey(config.EthPrivateKey)
	if err != nil {
		log.Sugar.Errorf("[wallet] 以太坊私钥解析失败: %v", err)
		return
	}
	wallet.RegisterProvider(NewEthereumService(config.GetEthRpcEndpoint(), config.GetEthChainId(), key))
	log.Sugar.Infof("[wallet] 以太坊钱包已注册, chain_id=%d", config.GetEthChainId())
}

func NewEthereumService(endpoint string, chainId int64, key *ecdsa.PrivateKey) *EthereumService {
	ethereumServiceOnce.Do(func() {
		ethereumServiceInstance = &EthereumService{
			endpoint: endpoint,
			chainId:  big.NewInt(chainId),
			key:      key,
			address:  crypto.PubkeyToAddress(key.PublicKey),
		}
	})
	return ethereumServiceInstance
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(hexKey, "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

func (s *EthereumService) GetWalletType() string {
	return wallet.WalletTypeEthereum
}

// ValidateAddress 以太坊地址校验
func (s *EthereumService) ValidateAddress(address string) bool {
	return common.IsHexAddress(address)
}

// RequestAccounts 授权即返回本地密钥对应的账户地址
func (s *EthereumService) RequestAccounts(ctx context.Context) ([]string, error) {
	if s.key == nil {
		return nil, errors.New("没有可用的签名密钥")
	}
	if _, err := s.dial(ctx); err != nil {
		return nil, err
	}
	return []string{s.address.Hex()}, nil
}

// SendTransaction 构造、签名并广播一笔原生币转账
func (s *EthereumService) SendTransaction(ctx context.Context, req wallet.TransferRequest) (wallet.PendingTransaction, error) {
	if !common.IsHexAddress(req.To) {
		return nil, fmt.Errorf("非法的收款地址: %s", req.To)
	}
	if req.Wei == nil || req.Wei.Sign() <= 0 {
		return nil, fmt.Errorf("非法的转账金额")
	}

	client, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := client.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, fmt.Errorf("获取nonce失败: %w", err)
	}
	gasTipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取gas小费失败: %w", err)
	}
	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("获取链头失败: %w", err)
	}
	// gasFeeCap = 2*baseFee + tip，容忍基础费短期上涨
	gasFeeCap := new(big.Int).Add(
		new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
		gasTipCap,
	)

	to := common.HexToAddress(req.To)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainId,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       transferGasLimit,
		To:        &to,
		Value:     req.Wei,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainId), s.key)
	if err != nil {
		return nil, fmt.Errorf("交易签名失败: %w", err)
	}
	if err = client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("交易广播失败: %w", err)
	}
	log.Sugar.Infof("[wallet] 交易已广播 hash=%s to=%s wei=%s", signedTx.Hash().Hex(), req.To, req.Wei.String())

	return &pendingTransaction{client: client, tx: signedTx}, nil
}

func (s *EthereumService) dial(ctx context.Context) (*ethclient.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	client, err := ethclient.DialContext(ctx, s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("连接以太坊节点失败: %w", err)
	}
	s.client = client
	return client, nil
}

type pendingTransaction struct {
	client *ethclient.Client
	tx     *types.Transaction
}

func (p *pendingTransaction) Hash() string {
	return p.tx.Hash().Hex()
}

// Wait 轮询回执直到交易上链或上下文取消，1个确认即视为成功
func (p *pendingTransaction) Wait(ctx context.Context) (*wallet.TransferReceipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := p.client.TransactionReceipt(ctx, p.tx.Hash())
		if receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("交易执行失败 hash=%s", p.tx.Hash().Hex())
			}
			return &wallet.TransferReceipt{
				TxHash:        p.tx.Hash().Hex(),
				BlockNumber:   receipt.BlockNumber.Uint64(),
				Confirmations: 1,
			}, nil
		}
		if err != nil && !errors.Is(err, goethereum.NotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
