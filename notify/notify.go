package notify

import (
	"fmt"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/util/log"
	"github.com/gookit/color"
	tb "gopkg.in/telebot.v3"
)

// Notifier OTP与支付通知的投递通道。
// 生产系统里这一边界会被真实的邮件/短信网关替换。
type Notifier interface {
	Alert(message string) error
}

var bot *tb.Bot

// SetBot 设置机器人实例
func SetBot(b *tb.Bot) {
	bot = b
}

// SendToBot 主动发送消息到机器人
func SendToBot(msg string) {
	if bot == nil {
		return
	}

	go func() {
		user := tb.User{
			ID: config.TgManage,
		}
		_, err := bot.Send(&user, msg, &tb.SendOptions{
			ParseMode: tb.ModeHTML,
		})
		if err != nil {
			log.Sugar.Error(err)
		}
	}()
}

// ConsoleNotifier 终端弹窗通道，对应浏览器里的alert
type ConsoleNotifier struct{}

func (ConsoleNotifier) Alert(message string) error {
	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━\n")
	color.Warn.Println(message)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	return nil
}

// TelegramNotifier 通过机器人投递通知
type TelegramNotifier struct{}

func (TelegramNotifier) Alert(message string) error {
	SendToBot(message)
	return nil
}

type group []Notifier

func (g group) Alert(message string) error {
	for _, n := range g {
		if err := n.Alert(message); err != nil {
			return err
		}
	}
	return nil
}

// Default 默认投递通道：终端弹窗，配置了机器人时同步推送
func Default() Notifier {
	if bot != nil {
		return group{ConsoleNotifier{}, TelegramNotifier{}}
	}
	return ConsoleNotifier{}
}
