package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	walletType string
}

func (s *stubProvider) GetWalletType() string { return s.walletType }

func (s *stubProvider) RequestAccounts(_ context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubProvider) SendTransaction(_ context.Context, _ TransferRequest) (PendingTransaction, error) {
	return nil, nil
}

func TestProviderRegistry(t *testing.T) {
	t.Cleanup(func() { UnregisterProvider(WalletTypeEthereum) })

	assert.Nil(t, GetProvider(WalletTypeEthereum))

	first := &stubProvider{walletType: WalletTypeEthereum}
	RegisterProvider(first)
	assert.Same(t, Provider(first), GetProvider(WalletTypeEthereum))
	assert.Equal(t, []string{WalletTypeEthereum}, GetAllWalletTypes())

	// 同类型重复注册应覆盖
	second := &stubProvider{walletType: WalletTypeEthereum}
	RegisterProvider(second)
	assert.Same(t, Provider(second), GetProvider(WalletTypeEthereum))

	UnregisterProvider(WalletTypeEthereum)
	assert.Nil(t, GetProvider(WalletTypeEthereum))
	assert.Empty(t, GetAllWalletTypes())
}
