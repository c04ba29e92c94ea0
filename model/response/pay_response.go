package response

// PaymentReceiptResponse 支付完成回执，用于完成页展示与商户回调
type PaymentReceiptResponse struct {
	SessionId string  `json:"session_id"` // 结算会话ID
	Method    string  `json:"method"`     // 支付方式ID
	Amount    float64 `json:"amount"`     // USD金额
	Rate      float64 `json:"rate"`       // 成交时使用的汇率，USD/ETH
	EthAmount string  `json:"eth_amount"` // 派生的ETH金额，6位小数
	Wei       string  `json:"wei"`        // 链上实际转账金额，最小单位
	TxHash    string  `json:"tx_hash,omitempty"`
	PaidAt    int64   `json:"paid_at"` // 支付完成时间戳
}
