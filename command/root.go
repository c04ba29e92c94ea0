package command

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ethpay",
	Short: "ETH收银台",
	Long:  "三步收银台：联系方式验证、支付方式选择、支付完成，ETH支付经由本地钱包上链。",
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "收银台相关命令",
}

func init() {
	checkoutCmd.AddCommand(startCmd)
	rootCmd.AddCommand(checkoutCmd)
}

// Execute 执行命令树
func Execute() error {
	return rootCmd.Execute()
}
