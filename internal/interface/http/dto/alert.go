package dto

// RegisterAlertRuleRequest HTTP告警规则注册请求
// code与category必须且只能填一个(作用域二选一),校验在领域层
type RegisterAlertRuleRequest struct {
	ID        string `json:"id" binding:"omitempty,max=64" example:"low-pen-stock"`
	Code      string `json:"code" binding:"omitempty,max=64" example:"6901234567892"`
	Category  string `json:"category" binding:"omitempty,max=100" example:"文具"`
	Field     string `json:"field" binding:"required,oneof=quantity price" example:"quantity"`
	Direction string `json:"direction" binding:"required,oneof=at_most at_least" example:"at_most"`
	Threshold int64  `json:"threshold" binding:"min=0" example:"5"` // 数量为件数,价格为分
}

// AlertRuleResponse HTTP告警规则响应
type AlertRuleResponse struct {
	ID        string `json:"id" example:"AR001"`
	Code      string `json:"code,omitempty" example:"6901234567892"`
	Category  string `json:"category,omitempty" example:"文具"`
	Field     string `json:"field" example:"quantity"`
	Direction string `json:"direction" example:"at_most"`
	Threshold int64  `json:"threshold" example:"5"`
}

// AlertRuleListResponse HTTP告警规则列表响应
type AlertRuleListResponse struct {
	List  []*AlertRuleResponse `json:"list"`
	Total int                  `json:"total" example:"5"`
}

// TriggeredAlertsResponse HTTP即时告警求值响应
type TriggeredAlertsResponse struct {
	Code      string   `json:"code" example:"6901234567892"`
	Triggered []string `json:"triggered" example:"AR001,AR003"`
}
