package inventory

import (
	"context"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
)

// ManageAlertsUseCase 告警规则管理用例
// 规则变更同样触发自动落盘——规则属于快照的一部分,重启后必须恢复
type ManageAlertsUseCase struct {
	service   inventory.Service
	autosaver *Autosaver
}

// NewManageAlertsUseCase 创建告警管理用例
func NewManageAlertsUseCase(service inventory.Service, autosaver *Autosaver) *ManageAlertsUseCase {
	return &ManageAlertsUseCase{
		service:   service,
		autosaver: autosaver,
	}
}

// RegisterRuleRequest 规则注册请求DTO
type RegisterRuleRequest struct {
	ID        string // 可选,为空则自动分配
	Code      string // 作用域:商品编码(与Category二选一)
	Category  string // 作用域:商品分类
	Field     string // quantity | price
	Direction string // at_most | at_least
	Threshold int64  // 数量为件数,价格为分
}

// Register 注册告警规则
func (uc *ManageAlertsUseCase) Register(ctx context.Context, req RegisterRuleRequest) (*AlertRuleView, error) {
	rule, err := uc.service.RegisterAlertRule(ctx, &inventory.AlertRule{
		ID:        req.ID,
		Code:      req.Code,
		Category:  req.Category,
		Field:     inventory.AlertField(req.Field),
		Direction: inventory.AlertDirection(req.Direction),
		Threshold: req.Threshold,
	})
	observeMutation("register_rule", err)
	if err != nil {
		return nil, err
	}

	uc.autosaver.Trigger(ctx)

	return toAlertRuleView(rule), nil
}

// Remove 按ID删除告警规则
func (uc *ManageAlertsUseCase) Remove(ctx context.Context, id string) error {
	err := uc.service.RemoveAlertRule(ctx, id)
	observeMutation("remove_rule", err)
	if err != nil {
		return err
	}

	uc.autosaver.Trigger(ctx)
	return nil
}

// List 全部告警规则,注册顺序
func (uc *ManageAlertsUseCase) List(ctx context.Context) []*AlertRuleView {
	rules := uc.service.AlertRules(ctx)
	views := make([]*AlertRuleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, toAlertRuleView(rule))
	}
	return views
}

// Triggered 对商品当前状态即时求值,返回被触发的规则ID
func (uc *ManageAlertsUseCase) Triggered(ctx context.Context, code string) ([]string, error) {
	return uc.service.TriggeredAlerts(ctx, code)
}
