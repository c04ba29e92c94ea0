package payment

// 支付方式类别
const (
	TypeCard   = "card"
	TypeBank   = "bank"
	TypeCrypto = "crypto"
)

// MethodEth 以太坊支付在目录中的固定ID
const MethodEth = "eth"

// Method 支付方式目录项，进程启动时确定，只读
type Method struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var methods = []Method{
	{
		Id:          "card",
		Name:        "Credit/Debit Card",
		Type:        TypeCard,
		Icon:        "credit-card",
		Description: "Pay securely with your card",
	},
	{
		Id:          "bank",
		Name:        "Bank Transfer",
		Type:        TypeBank,
		Icon:        "building",
		Description: "Direct bank transfer",
	},
	{
		Id:          MethodEth,
		Name:        "Ethereum (ETH)",
		Type:        TypeCrypto,
		Icon:        "bitcoin",
		Description: "Pay with your Ethereum wallet",
	},
}

// Methods 全部可用支付方式
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// GetMethodById 按ID查找支付方式
func GetMethodById(id string) (Method, bool) {
	for _, m := range methods {
		if m.Id == id {
			return m, true
		}
	}
	return Method{}, false
}
