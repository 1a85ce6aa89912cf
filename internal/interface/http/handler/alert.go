package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/stockpile/internal/application/inventory"
	"github.com/xiebiao/stockpile/internal/interface/http/dto"
	"github.com/xiebiao/stockpile/pkg/response"
)

// AlertHandler 告警规则HTTP处理器
type AlertHandler struct {
	alertsUseCase *appinventory.ManageAlertsUseCase
}

// NewAlertHandler 创建告警处理器
func NewAlertHandler(alertsUseCase *appinventory.ManageAlertsUseCase) *AlertHandler {
	return &AlertHandler{alertsUseCase: alertsUseCase}
}

// RegisterRule 注册告警规则
// @Summary      注册告警规则
// @Description  code与category二选一指定作用域;同作用域同方向重复注册返回业务错误
// @Tags         告警
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterAlertRuleRequest true "规则信息"
// @Success      200 {object} response.Response{data=dto.AlertRuleResponse}
// @Failure      400 {object} response.Response "规则非法"
// @Router       /api/v1/alerts [post]
func (h *AlertHandler) RegisterRule(c *gin.Context) {
	var req dto.RegisterAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	rule, err := h.alertsUseCase.Register(c.Request.Context(), appinventory.RegisterRuleRequest{
		ID:        req.ID,
		Code:      req.Code,
		Category:  req.Category,
		Field:     req.Field,
		Direction: req.Direction,
		Threshold: req.Threshold,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toAlertRuleResponse(rule))
}

// RemoveRule 删除告警规则
// @Summary      删除告警规则
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "规则ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "规则不存在"
// @Router       /api/v1/alerts/{id} [delete]
func (h *AlertHandler) RemoveRule(c *gin.Context) {
	if err := h.alertsUseCase.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListRules 告警规则列表
// @Summary      告警规则列表
// @Description  全部告警规则,注册顺序
// @Tags         告警
// @Produce      json
// @Success      200 {object} response.Response{data=dto.AlertRuleListResponse}
// @Router       /api/v1/alerts [get]
func (h *AlertHandler) ListRules(c *gin.Context) {
	rules := h.alertsUseCase.List(c.Request.Context())
	list := make([]*dto.AlertRuleResponse, 0, len(rules))
	for _, rule := range rules {
		list = append(list, toAlertRuleResponse(rule))
	}
	response.Success(c, &dto.AlertRuleListResponse{List: list, Total: len(list)})
}

// TriggeredAlerts 即时告警求值
// @Summary      即时告警求值
// @Description  对商品当前状态求值所有规则,返回被触发的规则ID
// @Tags         告警
// @Produce      json
// @Param        code path string true "商品编码"
// @Success      200 {object} response.Response{data=dto.TriggeredAlertsResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/items/{code}/alerts [get]
func (h *AlertHandler) TriggeredAlerts(c *gin.Context) {
	code := c.Param("code")
	triggered, err := h.alertsUseCase.Triggered(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.TriggeredAlertsResponse{Code: code, Triggered: triggered})
}

func toAlertRuleResponse(view *appinventory.AlertRuleView) *dto.AlertRuleResponse {
	return &dto.AlertRuleResponse{
		ID:        view.ID,
		Code:      view.Code,
		Category:  view.Category,
		Field:     view.Field,
		Direction: view.Direction,
		Threshold: view.Threshold,
	}
}
