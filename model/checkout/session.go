package checkout

import (
	"errors"

	"github.com/assimon/ethpay/util/constant"
	"github.com/golang-module/carbon/v2"
	"github.com/gookit/validate"
	uuid "github.com/satori/go.uuid"
)

// Channel 验证通道
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// Valid 是否为已知通道
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelMobile
}

// Step 收银台向导步骤
type Step int

const (
	StepDetails  Step = 1 // 联系方式与验证
	StepMethod   Step = 2 // 支付方式选择
	StepComplete Step = 3 // 完成
)

// Details 结算联系信息与金额
type Details struct {
	Email          string  `json:"email" validate:"required|email"`
	Mobile         string  `json:"mobile" validate:"required"`
	Amount         float64 `json:"amount" validate:"-"` // USD金额，>0 由 Validate 单独校验
	EmailOtp       string  `json:"-" validate:"-"`
	MobileOtp      string  `json:"-" validate:"-"`
	EmailVerified  bool    `json:"email_verified" validate:"-"`
	MobileVerified bool    `json:"mobile_verified" validate:"-"`
}

// Validate 第一步放行条件：金额>0、邮箱/手机号已填写且均完成验证
func (d *Details) Validate() error {
	v := validate.Struct(d)
	if !v.Validate() {
		return errors.New(v.Errors.One())
	}
	if d.Amount <= 0 {
		return constant.PayAmountErr
	}
	if !d.EmailVerified {
		return errors.New("email is not verified")
	}
	if !d.MobileVerified {
		return errors.New("mobile is not verified")
	}
	return nil
}

// Session 单次结算会话的全部可变状态，由收银台控制器独占持有。
// Generation 用于丢弃跨越 Reset 的陈旧异步结果。
type Session struct {
	ID              string
	CreatedAt       carbon.Carbon
	Details         Details
	MerchantAddress string
	Step            Step
	SelectedMethod  string
	Err             string // 当前错误槽，同一时刻只展示一条
	Generation      uint64
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.NewV4().String(),
		CreatedAt: carbon.Now(),
		Step:      StepDetails,
	}
}

// SetEmail 修改邮箱立即吊销邮箱验证状态，需重新验证
func (s *Session) SetEmail(email string) {
	s.Details.Email = email
	s.Details.EmailVerified = false
}

// SetMobile 修改手机号立即吊销手机验证状态
func (s *Session) SetMobile(mobile string) {
	s.Details.Mobile = mobile
	s.Details.MobileVerified = false
}

func (s *Session) SetAmount(amount float64) {
	s.Details.Amount = amount
}

func (s *Session) SetMerchantAddress(address string) {
	s.MerchantAddress = address
}

// SetOtpInput 记录用户输入的验证码，与已生成的秘密值相互独立
func (s *Session) SetOtpInput(channel Channel, code string) {
	switch channel {
	case ChannelEmail:
		s.Details.EmailOtp = code
	case ChannelMobile:
		s.Details.MobileOtp = code
	}
}

func (s *Session) OtpInput(channel Channel) string {
	if channel == ChannelEmail {
		return s.Details.EmailOtp
	}
	return s.Details.MobileOtp
}

// Destination 通道对应的联系方式
func (s *Session) Destination(channel Channel) string {
	if channel == ChannelEmail {
		return s.Details.Email
	}
	return s.Details.Mobile
}

func (s *Session) MarkVerified(channel Channel) {
	switch channel {
	case ChannelEmail:
		s.Details.EmailVerified = true
	case ChannelMobile:
		s.Details.MobileVerified = true
	}
}

func (s *Session) Verified(channel Channel) bool {
	if channel == ChannelEmail {
		return s.Details.EmailVerified
	}
	return s.Details.MobileVerified
}

// SelectMethod 记录支付方式并清除上一次错误
func (s *Session) SelectMethod(id string) {
	s.SelectedMethod = id
	s.Err = ""
}

func (s *Session) SetError(err error) {
	if err == nil {
		s.Err = ""
		return
	}
	s.Err = err.Error()
}

func (s *Session) ClearError() {
	s.Err = ""
}

// AdvanceToMethod 第一步放行校验通过后进入支付方式选择
func (s *Session) AdvanceToMethod() error {
	if s.Step != StepDetails {
		return constant.StepErr
	}
	if err := s.Details.Validate(); err != nil {
		return err
	}
	s.Step = StepMethod
	return nil
}

// Back 仅允许从第二步退回第一步
func (s *Session) Back() error {
	if s.Step != StepMethod {
		return constant.StepErr
	}
	s.Step = StepDetails
	return nil
}

// Complete 支付成功后进入完成页
func (s *Session) Complete() {
	s.Step = StepComplete
	s.Err = ""
}

// Reset 「再支付一笔」：全部状态回到初始值，换新会话ID，
// 代数递增以便丢弃仍在途的异步结果。
func (s *Session) Reset() {
	gen := s.Generation + 1
	*s = Session{
		ID:         uuid.NewV4().String(),
		CreatedAt:  carbon.Now(),
		Step:       StepDetails,
		Generation: gen,
	}
}
