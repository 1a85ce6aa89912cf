package inventory

import (
	"context"
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/metrics"
)

// RemoveItemUseCase 商品出库删除用例
type RemoveItemUseCase struct {
	service   inventory.Service
	autosaver *Autosaver
}

// NewRemoveItemUseCase 创建删除用例
func NewRemoveItemUseCase(service inventory.Service, autosaver *Autosaver) *RemoveItemUseCase {
	return &RemoveItemUseCase{
		service:   service,
		autosaver: autosaver,
	}
}

// Execute 执行删除用例,返回被删除的商品
// 历史记录在领域层保留以供审计,这里不做额外处理
func (uc *RemoveItemUseCase) Execute(ctx context.Context, code string) (*ItemView, error) {
	start := time.Now()
	item, err := uc.service.Remove(ctx, code)
	observeMutation("remove", err)
	observeMutationDuration("remove", start)
	if err != nil {
		return nil, err
	}

	if metrics.ItemsInStock != nil {
		metrics.DecGauge(metrics.ItemsInStock)
	}

	uc.autosaver.Trigger(ctx)

	return toItemView(item), nil
}
