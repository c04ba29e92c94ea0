package notify

import (
	"fmt"
	"net/http"

	"github.com/assimon/ethpay/config"
	"github.com/assimon/ethpay/model/response"
	"github.com/assimon/ethpay/util/http_client"
	"github.com/assimon/ethpay/util/json"
	"github.com/assimon/ethpay/util/log"
)

// SendMerchantCallback 支付成功后回调商户。未配置 notify_url 时跳过。
// 回调失败只记录日志，不影响已完成的支付。
func SendMerchantCallback(receipt *response.PaymentReceiptResponse) error {
	url := config.GetNotifyUrl()
	if url == "" {
		return nil
	}

	body, err := json.Cjson.Marshal(receipt)
	if err != nil {
		return err
	}

	client := http_client.GetHttpClient()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		log.Sugar.Errorf("[notify] 商户回调失败 url=%s err=%v", url, err)
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		log.Sugar.Errorf("[notify] 商户回调返回异常状态码 url=%s code=%d", url, resp.StatusCode())
		return fmt.Errorf("merchant callback status %d", resp.StatusCode())
	}
	log.Sugar.Infof("[notify] 商户回调成功 session=%s", receipt.SessionId)
	return nil
}
