package inventory

import (
	"context"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
)

// QueryItemsUseCase 商品查询用例(精确/前缀搜索/列表/过滤/历史)
// 查询不触碰任何索引结构,也不产生指标和落盘,合并为一个用例
type QueryItemsUseCase struct {
	service inventory.Service
}

// NewQueryItemsUseCase 创建查询用例
func NewQueryItemsUseCase(service inventory.Service) *QueryItemsUseCase {
	return &QueryItemsUseCase{service: service}
}

// GetByCode 按UPC编码精确查询
func (uc *QueryItemsUseCase) GetByCode(ctx context.Context, code string) (*ItemView, error) {
	item, err := uc.service.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toItemView(item), nil
}

// Search 按名称词元前缀搜索,结果按编码升序
func (uc *QueryItemsUseCase) Search(ctx context.Context, prefix string) ([]*ItemView, error) {
	items, err := uc.service.SearchByNamePrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return toItemViews(items), nil
}

// List 全部商品,按编码升序
func (uc *QueryItemsUseCase) List(ctx context.Context) ([]*ItemView, error) {
	items, err := uc.service.List(ctx)
	if err != nil {
		return nil, err
	}
	return toItemViews(items), nil
}

// FilterRequest 过滤请求DTO(零值字段不参与过滤)
type FilterRequest struct {
	Category string
	Tag      string
	MinPrice *int64 // 分
	MaxPrice *int64 // 分
}

// Filter 按分类/标签/价格区间过滤
func (uc *QueryItemsUseCase) Filter(ctx context.Context, req FilterRequest) ([]*ItemView, error) {
	items, err := uc.service.Filter(ctx, inventory.FilterParams{
		Category: req.Category,
		Tag:      req.Tag,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
	if err != nil {
		return nil, err
	}
	return toItemViews(items), nil
}

// History 商品的编辑前快照序列,最早的在前
// 已删除商品的历史仍可查询(审计需求)
func (uc *QueryItemsUseCase) History(ctx context.Context, code string) ([]*ItemView, error) {
	items, err := uc.service.History(ctx, code)
	if err != nil {
		return nil, err
	}
	return toItemViews(items), nil
}
