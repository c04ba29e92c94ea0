package math

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// WeiPerEth 以太坊原生币精度，1 ETH = 10^18 wei
const WeiPerEth = 18

// MustParsePrecFloat64 按指定精度四舍五入浮点数
func MustParsePrecFloat64(f float64, prec int32) float64 {
	v, _ := decimal.NewFromFloat(f).Round(prec).Float64()
	return v
}

// EthToWei 将ETH金额（十进制字符串）精确换算为wei。
// 链上金额不允许浮点损耗，超出18位小数精度的输入直接报错。
func EthToWei(ethAmount string) (*big.Int, error) {
	d, err := decimal.NewFromString(ethAmount)
	if err != nil {
		return nil, fmt.Errorf("非法的ETH金额 %q: %w", ethAmount, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("ETH金额不能为负数: %s", ethAmount)
	}
	shifted := d.Shift(WeiPerEth)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("ETH金额精度超过18位小数: %s", ethAmount)
	}
	return shifted.BigInt(), nil
}

// WeiToEth wei换算为ETH十进制字符串，仅用于展示
func WeiToEth(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -WeiPerEth).String()
}
