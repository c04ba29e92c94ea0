package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/model/payment"
	"github.com/assimon/ethpay/model/service"
	tb "gopkg.in/telebot.v3"
)

const (
	START_CMD   = "/start"
	RATE_CMD    = "/rate"
	METHODS_CMD = "/methods"
)

// Cmds 机器人命令列表
var Cmds = []tb.Command{
	{Text: "start", Description: "开始"},
	{Text: "rate", Description: "查询当前ETH汇率"},
	{Text: "methods", Description: "查看支付方式"},
}

// ShowWelcome 欢迎信息
func ShowWelcome(c tb.Context) error {
	msg := fmt.Sprintf("<b>Ethpay %s</b>\n收银台运行中，OTP与支付回执会推送到这里。", config.GetAppVersion())
	return c.Send(msg, &tb.SendOptions{ParseMode: tb.ModeHTML})
}

// ShowRate 查询当前汇率，未刷新过时现场刷新一次
func ShowRate(c tb.Context) error {
	svc := service.GetRateService()
	rate := svc.Rate()
	if rate <= 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		var err error
		rate, err = svc.Refresh(ctx)
		if err != nil {
			return c.Send("汇率获取失败，请稍后再试")
		}
	}
	return c.Send(fmt.Sprintf("当前汇率: 1 ETH = %.2f USD", rate))
}

// ShowMethods 查看支付方式目录
func ShowMethods(c tb.Context) error {
	var sb strings.Builder
	sb.WriteString("<b>支付方式</b>\n")
	for _, m := range payment.Methods() {
		sb.WriteString(fmt.Sprintf("· %s (%s) - %s\n", m.Name, m.Id, m.Description))
	}
	return c.Send(sb.String(), &tb.SendOptions{ParseMode: tb.ModeHTML})
}
