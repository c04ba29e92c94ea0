package task

import (
	"context"
	"time"

	"github.com/assimon/ethpay/model/service"
	"github.com/assimon/ethpay/util/constant"
	"github.com/assimon/ethpay/util/log"
)

// RateRefreshJob 定时刷新模拟汇率
type RateRefreshJob struct{}

func (RateRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	rate, err := service.GetRateService().Refresh(ctx)
	if err != nil {
		if err == constant.RateStaleErr {
			return
		}
		log.Sugar.Errorf("[汇率刷新] 失败: %v", err)
		return
	}
	log.Sugar.Debugf("[汇率刷新] 1 ETH = %.2f USD", rate)
}
