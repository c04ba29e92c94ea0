package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/model/checkout"
	"github.com/assimon/ethpay/model/payment"
	"github.com/assimon/ethpay/model/service"
	"github.com/assimon/ethpay/util/json"
	"github.com/gookit/color"
	"github.com/gookit/goutil/strutil"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "启动交互式收银台",
	Run: func(cmd *cobra.Command, args []string) {
		RunWizard()
	},
}

// RunWizard 终端收银台主循环，替代浏览器里的三步向导界面
func RunWizard() {
	svc := service.GetCheckoutService()
	reader := bufio.NewReader(os.Stdin)

	for {
		runSession(svc, reader)
		if !promptYesNo(reader, "Make another payment? (y/N): ") {
			color.Info.Println("感谢使用，再见")
			return
		}
		svc.Reset()
	}
}

func runSession(svc *service.CheckoutService, reader *bufio.Reader) {
	ctx := context.Background()

	for {
		sess := svc.Session()
		switch sess.Step {
		case checkout.StepDetails:
			runDetailsStep(ctx, svc, reader)
		case checkout.StepMethod:
			if done := runMethodStep(ctx, svc, reader); done {
				return
			}
		case checkout.StepComplete:
			return
		}
	}
}

// runDetailsStep 第一步：商户地址、联系方式、OTP验证、金额
func runDetailsStep(ctx context.Context, svc *service.CheckoutService, reader *bufio.Reader) {
	color.Bold.Println("\n== Step 1 of 3: 联系方式与验证 ==")

	sess := svc.Session()
	address := promptKeep(reader, "商户ETH收款地址", firstNonEmpty(sess.MerchantAddress, config.GetMerchantEthAddress()))
	svc.SetMerchantAddress(address)

	verifyChannel(ctx, svc, reader, checkout.ChannelEmail, "邮箱")
	verifyChannel(ctx, svc, reader, checkout.ChannelMobile, "手机号")

	amount := promptFloat(reader, "支付金额 (USD): ")
	svc.InputAmount(amount)

	// 刷新汇率并展示ETH预估
	if _, err := svc.RefreshRate(ctx); err != nil {
		color.Error.Println("汇率刷新失败: ", err)
	}
	color.Info.Printf("当前汇率 1 ETH = %.2f USD，约需 %s ETH\n", svc.Rate(), svc.EthAmount())

	if err := svc.AdvanceToMethod(); err != nil {
		color.Error.Println(err.Error())
	}
}

// verifyChannel 一个通道的完整验证流程：填写、发码、校验
func verifyChannel(ctx context.Context, svc *service.CheckoutService, reader *bufio.Reader, channel checkout.Channel, label string) {
	sess := svc.Session()
	if sess.Verified(channel) {
		return
	}

	value := promptKeep(reader, label, sess.Destination(channel))
	if channel == checkout.ChannelEmail {
		svc.InputEmail(value)
	} else {
		svc.InputMobile(value)
	}

	for {
		color.Println("正在发送验证码...")
		if err := svc.SendOtp(ctx, channel); err != nil {
			color.Error.Println(err.Error())
			return
		}
		for {
			code := promptString(reader, fmt.Sprintf("请输入%s验证码 (r=重发): ", label))
			if code == "r" {
				break
			}
			svc.InputOtp(channel, code)
			if err := svc.VerifyOtp(channel); err != nil {
				color.Error.Println(err.Error())
				continue
			}
			color.Success.Printf("%s验证通过\n", label)
			return
		}
	}
}

// runMethodStep 第二步：支付方式选择与提交，返回true表示本次会话结束
func runMethodStep(ctx context.Context, svc *service.CheckoutService, reader *bufio.Reader) bool {
	color.Bold.Println("\n== Step 2 of 3: 选择支付方式 ==")
	for i, m := range payment.Methods() {
		color.Printf("  %d. %s - %s\n", i+1, m.Name, m.Description)
	}

	methods := payment.Methods()
	for {
		input := promptString(reader, "请选择支付方式 (序号或ID): ")
		idx, err := strconv.Atoi(input)
		if err == nil && idx >= 1 && idx <= len(methods) {
			input = methods[idx-1].Id
		}
		if err := svc.SelectPaymentMethod(input); err != nil {
			color.Error.Println(err.Error())
			continue
		}
		break
	}

	color.Println("正在提交支付...")
	receipt, err := svc.Submit(ctx)
	if err != nil {
		color.Error.Println(err.Error())
		choice := promptString(reader, "r=重试 b=返回上一步 q=放弃: ")
		switch choice {
		case "b":
			if err := svc.Back(); err != nil {
				color.Error.Println(err.Error())
			}
			return false
		case "q":
			return true
		default:
			return false // 停留在第二步重试
		}
	}

	color.Bold.Println("\n== Step 3 of 3: 支付完成 ==")
	out, _ := json.Cjson.MarshalIndent(receipt, "", "  ")
	color.Success.Println("支付成功！回执如下:")
	fmt.Println(string(out))
	return true
}

func promptString(reader *bufio.Reader, label string) string {
	color.Print(label)
	line, _ := reader.ReadString('\n')
	return strutil.Trim(line)
}

// promptKeep 带当前值的输入，回车保留
func promptKeep(reader *bufio.Reader, label, current string) string {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	input := promptString(reader, label+": ")
	if input == "" {
		return current
	}
	return input
}

func promptFloat(reader *bufio.Reader, label string) float64 {
	for {
		input := promptString(reader, label)
		v, err := strconv.ParseFloat(input, 64)
		if err != nil || v <= 0 {
			color.Error.Println("请输入大于0的金额")
			continue
		}
		return v
	}
}

func promptYesNo(reader *bufio.Reader, label string) bool {
	input := promptString(reader, label)
	return input == "y" || input == "Y"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
