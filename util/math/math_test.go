package math

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEthToWei(t *testing.T) {
	cases := []struct {
		eth string
		wei string
	}{
		{"0.050000", "50000000000000000"},
		{"1", "1000000000000000000"},
		{"0.000001", "1000000000000"},
		{"2.5", "2500000000000000000"},
		{"0", "0"},
	}
	for _, c := range cases {
		got, err := EthToWei(c.eth)
		require.NoError(t, err, c.eth)
		want, ok := new(big.Int).SetString(c.wei, 10)
		require.True(t, ok)
		assert.Zero(t, got.Cmp(want), "eth=%s", c.eth)
	}
}

func TestEthToWeiInvalid(t *testing.T) {
	_, err := EthToWei("abc")
	assert.Error(t, err)

	_, err = EthToWei("-1")
	assert.Error(t, err)

	// 超过18位小数的精度直接拒绝，不做静默截断
	_, err = EthToWei("0.0000000000000000001")
	assert.Error(t, err)
}

func TestWeiToEth(t *testing.T) {
	wei, _ := new(big.Int).SetString("50000000000000000", 10)
	assert.Equal(t, "0.05", WeiToEth(wei))
	assert.Equal(t, "0", WeiToEth(nil))
}

func TestMustParsePrecFloat64(t *testing.T) {
	assert.Equal(t, 1.23, MustParsePrecFloat64(1.23456, 2))
	assert.Equal(t, float64(2), MustParsePrecFloat64(1.999, 0))
}
