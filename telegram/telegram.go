package telegram

import (
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/notify"
	"github.com/assimon/ethpay/util/log"
	tb "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

var bots *tb.Bot

// BotStart 机器人启动，未配置token时直接跳过
func BotStart() {
	if config.TgBotToken == "" {
		return
	}
	var err error
	botSetting := tb.Settings{
		Token:  config.TgBotToken,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	}
	if config.TgProxy != "" {
		botSetting.URL = config.TgProxy
	}
	bots, err = tb.NewBot(botSetting)
	if err != nil {
		log.Sugar.Error(err.Error())
		return
	}
	err = bots.SetCommands(Cmds)
	if err != nil {
		log.Sugar.Error(err.Error())
		return
	}
	// 设置通知bot实例，OTP与支付回执走这里推送
	notify.SetBot(bots)
	RegisterHandle()
	log.Sugar.Info("[Telegram] 机器人启动成功")
	bots.Start()
}

// RegisterHandle 注册处理器
func RegisterHandle() {
	adminOnly := bots.Group()
	adminOnly.Use(middleware.Whitelist(config.TgManage))

	adminOnly.Handle(START_CMD, ShowWelcome)
	adminOnly.Handle(RATE_CMD, ShowRate)
	adminOnly.Handle(METHODS_CMD, ShowMethods)
}
