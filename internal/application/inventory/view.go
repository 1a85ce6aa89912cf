package inventory

import (
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/metrics"
)

// ItemView 商品视图DTO
// 各用例共用的输出结构,价格以分为单位原样透出,格式化交给展示层
type ItemView struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"` // 分
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toItemView(item *inventory.Item) *ItemView {
	if item == nil {
		return nil
	}
	return &ItemView{
		Code:      item.Code,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Category:  item.Category,
		Tags:      item.Tags,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toItemViews(items []*inventory.Item) []*ItemView {
	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toItemView(item))
	}
	return views
}

// AlertRuleView 告警规则视图DTO
type AlertRuleView struct {
	ID        string `json:"id"`
	Code      string `json:"code,omitempty"`
	Category  string `json:"category,omitempty"`
	Field     string `json:"field"`
	Direction string `json:"direction"`
	Threshold int64  `json:"threshold"`
}

func toAlertRuleView(rule *inventory.AlertRule) *AlertRuleView {
	if rule == nil {
		return nil
	}
	return &AlertRuleView{
		ID:        rule.ID,
		Code:      rule.Code,
		Category:  rule.Category,
		Field:     string(rule.Field),
		Direction: string(rule.Direction),
		Threshold: rule.Threshold,
	}
}

// observeMutation 记录变更操作指标
// InitMetrics可能未调用(单测场景),所以全部判nil
func observeMutation(op string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	if metrics.MutationsTotal != nil {
		metrics.IncCounterVec(metrics.MutationsTotal, map[string]string{
			"op":     op,
			"result": result,
		})
	}
}

// observeMutationDuration 记录变更操作耗时
func observeMutationDuration(op string, start time.Time) {
	if metrics.MutationDuration != nil {
		metrics.ObserveHistogramVec(metrics.MutationDuration, map[string]string{
			"op": op,
		}, time.Since(start).Seconds())
	}
}
