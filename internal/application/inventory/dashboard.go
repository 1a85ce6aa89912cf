package inventory

import (
	"context"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/metrics"
)

// DashboardUseCase 仪表盘统计用例
type DashboardUseCase struct {
	service inventory.Service
}

// NewDashboardUseCase 创建仪表盘用例
func NewDashboardUseCase(service inventory.Service) *DashboardUseCase {
	return &DashboardUseCase{service: service}
}

// Execute 汇总库存统计,同时把种数/词元数同步到Prometheus仪表
// 仪表在此处整体校准,抵消增量更新可能产生的漂移
func (uc *DashboardUseCase) Execute(ctx context.Context) *inventory.Stats {
	stats := uc.service.Stats(ctx)

	if metrics.ItemsInStock != nil {
		metrics.SetGauge(metrics.ItemsInStock, float64(stats.ItemCount))
	}
	if metrics.SearchTokens != nil {
		metrics.SetGauge(metrics.SearchTokens, float64(stats.TokenCount))
	}

	return stats
}
