package http_client

import (
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/go-resty/resty/v2"
)

// GetHttpClient 获取请求客户端
func GetHttpClient(proxys ...string) *resty.Client {
	client := resty.New()
	// 优先使用传入的代理，否则使用全局代理
	if len(proxys) > 0 {
		client.SetProxy(proxys[0])
	} else if config.Proxy != "" {
		client.SetProxy(config.Proxy)
	}
	client.SetTimeout(time.Second * 5)
	return client
}
