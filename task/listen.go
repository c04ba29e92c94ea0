package task

import (
	"fmt"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/util/log"
	"github.com/robfig/cron/v3"
)

func Start() {
	c := cron.New()

	// 汇率后台刷新
	interval := config.GetRateRefreshInterval()
	c.AddJob(fmt.Sprintf("@every %ds", interval), RateRefreshJob{})
	log.Sugar.Infof("汇率刷新任务已启动，每%d秒执行", interval)

	// 启动时立即刷新一次，避免收银台拿到零汇率
	go func() {
		RateRefreshJob{}.Run()
	}()

	c.Start()
}
