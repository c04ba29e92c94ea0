package main

import (
	"github.com/assimon/ethpay/bootstrap"
	"github.com/assimon/ethpay/config"
	"github.com/gookit/color"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			color.Error.Println("启动服务错误: ", err)
		}
	}()
	color.Infof("Ethpay 版本(%s) 作者: %s %s \n", config.GetAppVersion(), "assimon", "https://github.com/assimon/ethpay")
	bootstrap.Start()
}

// go run . checkout start
