package inventory

import (
	"context"
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/metrics"
)

// AddItemUseCase 商品入库用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 入库成功后触发自动保存(开启时)
type AddItemUseCase struct {
	service   inventory.Service
	autosaver *Autosaver
}

// NewAddItemUseCase 创建入库用例
func NewAddItemUseCase(service inventory.Service, autosaver *Autosaver) *AddItemUseCase {
	return &AddItemUseCase{
		service:   service,
		autosaver: autosaver,
	}
}

// AddItemRequest 入库请求DTO
type AddItemRequest struct {
	Code     string   // UPC编码
	Name     string   // 商品名称
	Quantity int      // 初始数量
	Price    int64    // 价格(分)
	Category string   // 分类(可选)
	Tags     []string // 标签(可选)
}

// Execute 执行入库用例
// 学习要点:
// 1. 业务规则校验由领域服务负责(编码非空、数量非负等)
// 2. 应用层只负责流程编排和横切关注点(指标、自动保存)
func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) (*ItemView, error) {
	start := time.Now()
	item, err := uc.service.Add(ctx, inventory.AddItemParams{
		Code:     req.Code,
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		Category: req.Category,
		Tags:     req.Tags,
	})

	observeMutation("add", err)
	observeMutationDuration("add", start)
	if err != nil {
		return nil, err
	}

	if metrics.ItemsInStock != nil {
		metrics.IncGauge(metrics.ItemsInStock)
	}

	uc.autosaver.Trigger(ctx)

	return toItemView(item), nil
}
