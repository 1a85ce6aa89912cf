package dto

import (
	"fmt"
	"time"

	appinventory "github.com/xiebiao/stockpile/internal/application/inventory"
)

// AddItemRequest HTTP入库请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type AddItemRequest struct {
	Code     string   `json:"code" binding:"required,max=64" example:"6901234567892"`
	Name     string   `json:"name" binding:"required,max=200" example:"红色 圆珠笔"`
	Quantity int      `json:"quantity" binding:"min=0" example:"100"`
	Price    int64    `json:"price" binding:"min=0" example:"350"` // 价格(分),3.50元
	Category string   `json:"category" binding:"max=100" example:"文具"`
	Tags     []string `json:"tags" binding:"omitempty,max=20,dive,max=50" example:"促销,新品"`
}

// EditItemRequest HTTP编辑请求
// Tokens是编辑指令词流,标签语法在领域层解析:
// n/开头改名称(后续无标签词并入名称),qty/改数量,p/改价格(元)
type EditItemRequest struct {
	Tokens []string `json:"tokens" binding:"required,min=1" example:"n/蓝色,圆珠笔,qty/42"`
}

// ItemResponse HTTP商品响应
type ItemResponse struct {
	Code      string   `json:"code" example:"6901234567892"`
	Name      string   `json:"name" example:"红色 圆珠笔"`
	Quantity  int      `json:"quantity" example:"100"`
	Price     int64    `json:"price" example:"350"`        // 价格(分)
	PriceYuan string   `json:"price_yuan" example:"3.50"`  // 价格(元),方便前端显示
	Category  string   `json:"category,omitempty" example:"文具"`
	Tags      []string `json:"tags,omitempty" example:"促销"`
	CreatedAt string   `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt string   `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// EditItemResponse HTTP编辑响应(前后对照+触发的告警)
type EditItemResponse struct {
	Old       *ItemResponse `json:"old"`
	New       *ItemResponse `json:"new"`
	Triggered []string      `json:"triggered" example:"AR001"`
}

// FilterItemsRequest HTTP过滤请求(query参数,零值字段不参与过滤)
type FilterItemsRequest struct {
	Category string `form:"category" binding:"omitempty,max=100" example:"文具"`
	Tag      string `form:"tag" binding:"omitempty,max=50" example:"促销"`
	MinPrice *int64 `form:"min_price" binding:"omitempty,min=0" example:"100"` // 分
	MaxPrice *int64 `form:"max_price" binding:"omitempty,min=0" example:"1000"`
}

// ItemListResponse HTTP商品列表响应
type ItemListResponse struct {
	List  []*ItemResponse `json:"list"`
	Total int             `json:"total" example:"3"`
}

// StatsResponse HTTP仪表盘统计响应
type StatsResponse struct {
	ItemCount      int    `json:"item_count" example:"120"`
	TotalUnits     int    `json:"total_units" example:"3500"`
	TotalValue     int64  `json:"total_value" example:"1250000"` // 分
	TotalValueYuan string `json:"total_value_yuan" example:"12500.00"`
	CategoryCount  int    `json:"category_count" example:"8"`
	TokenCount     int    `json:"token_count" example:"342"`
	AlertRuleCount int    `json:"alert_rule_count" example:"5"`
	TriggeredItems int    `json:"triggered_items" example:"2"`
	Autosave       bool   `json:"autosave" example:"true"` // 自动落盘当前是否开启
}

// SnapshotSaveResponse HTTP手动落盘响应
type SnapshotSaveResponse struct {
	ItemCount  int `json:"item_count" example:"120"`
	RuleCount  int `json:"rule_count" example:"5"`
	EntryCount int `json:"entry_count" example:"860"`
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:350分 → "3.50"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// ToItemResponse 应用层视图→HTTP响应
func ToItemResponse(view *appinventory.ItemView) *ItemResponse {
	if view == nil {
		return nil
	}
	return &ItemResponse{
		Code:      view.Code,
		Name:      view.Name,
		Quantity:  view.Quantity,
		Price:     view.Price,
		PriceYuan: FormatPriceYuan(view.Price),
		Category:  view.Category,
		Tags:      view.Tags,
		CreatedAt: view.CreatedAt.Format(time.DateTime),
		UpdatedAt: view.UpdatedAt.Format(time.DateTime),
	}
}

// ToItemListResponse 应用层视图列表→HTTP列表响应
func ToItemListResponse(views []*appinventory.ItemView) *ItemListResponse {
	list := make([]*ItemResponse, 0, len(views))
	for _, v := range views {
		list = append(list, ToItemResponse(v))
	}
	return &ItemListResponse{List: list, Total: len(list)}
}
