package inventory

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/metrics"
)

// EditItemUseCase 商品编辑用例
// 设计说明:
// 1. 编辑指令以token流形式进入(n/新名称 qty/42 p/9.99),解析由领域层负责
// 2. 编辑触发的告警通过AlertNotifier发布到消息队列,通知失败不影响编辑结果
//    (告警是旁路信息,编辑才是主流程)
// 3. 编辑成功后触发自动落盘
type EditItemUseCase struct {
	service   inventory.Service
	notifier  inventory.AlertNotifier
	autosaver *Autosaver
}

// NewEditItemUseCase 创建编辑用例
// notifier为nil表示不发布告警事件(MQ未启用)
func NewEditItemUseCase(service inventory.Service, notifier inventory.AlertNotifier, autosaver *Autosaver) *EditItemUseCase {
	return &EditItemUseCase{
		service:   service,
		notifier:  notifier,
		autosaver: autosaver,
	}
}

// EditItemRequest 编辑请求DTO
type EditItemRequest struct {
	Code   string   // 目标商品编码
	Tokens []string // 原始编辑token流,如["n/红色", "圆珠笔", "qty/42"]
}

// EditItemResponse 编辑响应DTO
type EditItemResponse struct {
	Old       *ItemView `json:"old"`       // 编辑前快照
	New       *ItemView `json:"new"`       // 编辑后状态
	Triggered []string  `json:"triggered"` // 本次编辑触发的告警规则ID
}

// Execute 执行编辑用例
// 学习要点:
// 1. token分类(哪些是名称、哪些是字段编辑)在领域层完成,应用层不理解语法
// 2. 告警通知和自动落盘都是best-effort:主流程成功后它们的失败只记日志
func (uc *EditItemUseCase) Execute(ctx context.Context, req EditItemRequest) (*EditItemResponse, error) {
	tokens := inventory.ClassifyEditTokens(req.Tokens)

	start := time.Now()
	result, err := uc.service.Edit(ctx, req.Code, tokens)
	observeMutation("edit", err)
	observeMutationDuration("edit", start)
	if err != nil {
		return nil, err
	}

	if len(result.Triggered) > 0 && metrics.AlertsTriggeredTotal != nil {
		metrics.AlertsTriggeredTotal.Add(float64(len(result.Triggered)))
	}

	if uc.notifier != nil && len(result.Triggered) > 0 {
		if err := uc.notifier.NotifyTriggered(ctx, result.New, result.Triggered); err != nil {
			log.Printf("⚠️ 告警事件发布失败 code=%s rules=%v: %v", result.New.Code, result.Triggered, err)
		}
	}

	uc.autosaver.Trigger(ctx)

	return &EditItemResponse{
		Old:       toItemView(result.Old),
		New:       toItemView(result.New),
		Triggered: result.Triggered,
	}, nil
}
