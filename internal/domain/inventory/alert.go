package inventory

import "fmt"

// AlertField 告警监控的字段
type AlertField string

const (
	AlertFieldQuantity AlertField = "quantity" // 监控库存数量
	AlertFieldPrice    AlertField = "price"    // 监控价格(分)
)

// AlertDirection 阈值比较方向
type AlertDirection string

const (
	// AlertAtMost 当前值<=阈值时触发(低库存告警)
	AlertAtMost AlertDirection = "at_most"
	// AlertAtLeast 当前值>=阈值时触发(超储/超价告警)
	AlertAtLeast AlertDirection = "at_least"
)

// AlertRule 告警规则
// 设计说明:
// 1. 作用域二选一:Code精确匹配单个商品,或Category匹配整个分类
// 2. 规则只保存编码/分类和阈值,不持有商品引用——求值时传入商品状态
type AlertRule struct {
	ID        string         // 规则标识(注册时未指定则自动分配)
	Code      string         // 作用域:商品编码(与Category二选一)
	Category  string         // 作用域:商品分类
	Field     AlertField     // 监控字段
	Direction AlertDirection // 比较方向
	Threshold int64          // 阈值(数量为件数,价格为分)
}

// Validate 校验规则
func (r *AlertRule) Validate() error {
	if (r.Code == "") == (r.Category == "") {
		return ErrInvalidAlertRule // 必须且只能指定一种作用域
	}
	if r.Field != AlertFieldQuantity && r.Field != AlertFieldPrice {
		return ErrInvalidAlertRule
	}
	if r.Direction != AlertAtMost && r.Direction != AlertAtLeast {
		return ErrInvalidAlertRule
	}
	if r.Threshold < 0 {
		return ErrInvalidAlertRule
	}
	return nil
}

// AppliesTo 判断规则作用域是否覆盖商品
func (r *AlertRule) AppliesTo(item *Item) bool {
	if r.Code != "" {
		return r.Code == item.Code
	}
	return r.Category != "" && r.Category == item.Category
}

// Triggered 判断商品当前状态是否落在告警侧
func (r *AlertRule) Triggered(item *Item) bool {
	var value int64
	switch r.Field {
	case AlertFieldQuantity:
		value = int64(item.Quantity)
	case AlertFieldPrice:
		value = item.Price
	default:
		return false
	}

	if r.Direction == AlertAtMost {
		return value <= r.Threshold
	}
	return value >= r.Threshold
}

// clone 拷贝规则(对外返回值用)
func (r *AlertRule) clone() *AlertRule {
	c := *r
	return &c
}

// AlertEngine 告警求值器
// 设计说明:
// 1. 持有有序规则集(注册顺序),本身无商品状态
// 2. Evaluate是纯函数:相同规则集+相同商品状态必然得到相同结果,不缓存
type AlertEngine struct {
	rules []*AlertRule
	seq   int // ID自增序号
}

// NewAlertEngine 创建告警求值器
func NewAlertEngine() *AlertEngine {
	return &AlertEngine{}
}

// Register 注册规则
// 业务规则:
// - 未指定ID时自动分配(AR001、AR002...);ID重复返回ErrDuplicateAlertRule
// - 同作用域+同字段+同方向视为重复规则,拒绝注册
func (e *AlertEngine) Register(rule *AlertRule) (*AlertRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	for _, existing := range e.rules {
		if rule.ID != "" && existing.ID == rule.ID {
			return nil, ErrDuplicateAlertRule
		}
		if existing.Code == rule.Code && existing.Category == rule.Category &&
			existing.Field == rule.Field && existing.Direction == rule.Direction {
			return nil, ErrDuplicateAlertRule
		}
	}

	stored := rule.clone()
	if stored.ID == "" {
		e.seq++
		stored.ID = fmt.Sprintf("AR%03d", e.seq)
	}
	e.rules = append(e.rules, stored)
	return stored.clone(), nil
}

// Remove 按ID删除规则
func (e *AlertEngine) Remove(id string) error {
	for i, rule := range e.rules {
		if rule.ID == id {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			return nil
		}
	}
	return ErrAlertRuleNotFound
}

// Rules 返回全部规则拷贝,注册顺序
func (e *AlertEngine) Rules() []*AlertRule {
	result := make([]*AlertRule, len(e.rules))
	for i, rule := range e.rules {
		result[i] = rule.clone()
	}
	return result
}

// Evaluate 对商品状态求值,返回被触发的规则ID
// 匹配顺序:先编码精确规则,再回落到分类规则;各组内保持注册顺序
// 每次调用重新求值,不做缓存
func (e *AlertEngine) Evaluate(item *Item) []string {
	var triggered []string
	for _, rule := range e.rules {
		if rule.Code != "" && rule.AppliesTo(item) && rule.Triggered(item) {
			triggered = append(triggered, rule.ID)
		}
	}
	for _, rule := range e.rules {
		if rule.Code == "" && rule.AppliesTo(item) && rule.Triggered(item) {
			triggered = append(triggered, rule.ID)
		}
	}
	return triggered
}

// Len 当前规则数
func (e *AlertEngine) Len() int {
	return len(e.rules)
}
