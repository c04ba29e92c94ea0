package bootstrap

import (
	"github.com/assimon/ethpay/command"
	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/task"
	"github.com/assimon/ethpay/telegram"
	"github.com/assimon/ethpay/util/log"
	"github.com/assimon/ethpay/wallet/ethereum"
	"github.com/assimon/ethpay/wallet/mock"
)

// Start 服务启动
func Start() {
	// 配置加载
	config.Init()
	// 日志加载
	log.Init()
	// 钱包提供方初始化
	ethereum.Setup()
	mock.Setup()
	// telegram机器人启动
	go telegram.BotStart()
	// 定时任务
	go task.Start()
	err := command.Execute()
	if err != nil {
		panic(err)
	}
}
