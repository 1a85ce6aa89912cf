package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/stockpile/internal/application/inventory"
	"github.com/xiebiao/stockpile/internal/interface/http/dto"
	"github.com/xiebiao/stockpile/pkg/response"
)

// DashboardHandler 仪表盘与快照HTTP处理器
type DashboardHandler struct {
	dashboardUseCase *appinventory.DashboardUseCase
	snapshotUseCase  *appinventory.SnapshotUseCase
	autosaver        *appinventory.Autosaver
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(
	dashboardUseCase *appinventory.DashboardUseCase,
	snapshotUseCase *appinventory.SnapshotUseCase,
	autosaver *appinventory.Autosaver,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		snapshotUseCase:  snapshotUseCase,
		autosaver:        autosaver,
	}
}

// GetStats 仪表盘统计
// @Summary      仪表盘统计
// @Description  库存汇总:种数/总件数/总价值/分类数/词元数/规则数/当前触发告警的商品数
// @Tags         仪表盘
// @Produce      json
// @Success      200 {object} response.Response{data=dto.StatsResponse}
// @Router       /api/v1/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats := h.dashboardUseCase.Execute(c.Request.Context())
	response.Success(c, &dto.StatsResponse{
		ItemCount:      stats.ItemCount,
		TotalUnits:     stats.TotalUnits,
		TotalValue:     stats.TotalValue,
		TotalValueYuan: dto.FormatPriceYuan(stats.TotalValue),
		CategoryCount:  stats.CategoryCount,
		TokenCount:     stats.TokenCount,
		AlertRuleCount: stats.AlertRuleCount,
		TriggeredItems: stats.TriggeredItems,
		Autosave:       h.autosaver.Enabled(),
	})
}

// SaveSnapshot 手动快照落盘
// @Summary      手动快照落盘
// @Description  导出全量状态(商品+历史+规则)并写入存储
// @Tags         快照
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.SnapshotSaveResponse}
// @Failure      500 {object} response.Response "落盘失败"
// @Router       /api/v1/snapshot [post]
func (h *DashboardHandler) SaveSnapshot(c *gin.Context) {
	result, err := h.snapshotUseCase.Save(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.SnapshotSaveResponse{
		ItemCount:  result.ItemCount,
		RuleCount:  result.RuleCount,
		EntryCount: result.EntryCount,
	})
}

// SetAutosave 自动落盘开关
// @Summary      自动落盘开关
// @Tags         快照
// @Produce      json
// @Security     BearerAuth
// @Param        enabled query bool true "是否开启"
// @Success      200 {object} response.Response
// @Router       /api/v1/snapshot/autosave [put]
func (h *DashboardHandler) SetAutosave(c *gin.Context) {
	enabled := c.Query("enabled") == "true"
	h.autosaver.SetEnabled(enabled)
	response.Success(c, gin.H{"autosave": h.autosaver.Enabled()})
}
