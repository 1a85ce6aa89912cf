package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/stockpile/internal/application/inventory"
	"github.com/xiebiao/stockpile/internal/interface/http/dto"
	"github.com/xiebiao/stockpile/pkg/response"
)

// ItemHandler 库存商品HTTP处理器
type ItemHandler struct {
	addUseCase    *appinventory.AddItemUseCase
	editUseCase   *appinventory.EditItemUseCase
	removeUseCase *appinventory.RemoveItemUseCase
	queryUseCase  *appinventory.QueryItemsUseCase
}

// NewItemHandler 创建商品处理器
func NewItemHandler(
	addUseCase *appinventory.AddItemUseCase,
	editUseCase *appinventory.EditItemUseCase,
	removeUseCase *appinventory.RemoveItemUseCase,
	queryUseCase *appinventory.QueryItemsUseCase,
) *ItemHandler {
	return &ItemHandler{
		addUseCase:    addUseCase,
		editUseCase:   editUseCase,
		removeUseCase: removeUseCase,
		queryUseCase:  queryUseCase,
	}
}

// AddItem 商品入库
// @Summary      商品入库
// @Description  新增商品到库存,编码重复返回409业务错误
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddItemRequest true "商品信息"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/items [post]
func (h *ItemHandler) AddItem(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	view, err := h.addUseCase.Execute(c.Request.Context(), appinventory.AddItemRequest{
		Code:     req.Code,
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	response.Success(c, dto.ToItemResponse(view))
}

// EditItem 商品编辑
// @Summary      商品编辑
// @Description  按编辑指令词流修改商品(n/名称 qty/数量 p/价格),原子生效
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "商品编码"
// @Param        request body dto.EditItemRequest true "编辑指令词流"
// @Success      200 {object} response.Response{data=dto.EditItemResponse}
// @Failure      400 {object} response.Response "指令语法或数值错误"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/items/{code} [patch]
func (h *ItemHandler) EditItem(c *gin.Context) {
	var req dto.EditItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	result, err := h.editUseCase.Execute(c.Request.Context(), appinventory.EditItemRequest{
		Code:   c.Param("code"),
		Tokens: req.Tokens,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.EditItemResponse{
		Old:       dto.ToItemResponse(result.Old),
		New:       dto.ToItemResponse(result.New),
		Triggered: result.Triggered,
	})
}

// RemoveItem 商品删除
// @Summary      商品删除
// @Description  从库存删除商品并返回被删实体,历史保留以供审计
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "商品编码"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/items/{code} [delete]
func (h *ItemHandler) RemoveItem(c *gin.Context) {
	view, err := h.removeUseCase.Execute(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToItemResponse(view))
}

// GetItem 商品详情
// @Summary      商品详情
// @Description  按UPC编码精确查询
// @Tags         商品
// @Produce      json
// @Param        code path string true "商品编码"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/items/{code} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	view, err := h.queryUseCase.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToItemResponse(view))
}

// ListItems 商品列表/过滤
// @Summary      商品列表
// @Description  全部商品按编码升序;带query参数时按分类/标签/价格区间过滤
// @Tags         商品
// @Produce      json
// @Param        category query string false "分类"
// @Param        tag query string false "标签"
// @Param        min_price query int false "价格下界(分,含)"
// @Param        max_price query int false "价格上界(分,含)"
// @Success      200 {object} response.Response{data=dto.ItemListResponse}
// @Router       /api/v1/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	var req dto.FilterItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	var (
		views []*appinventory.ItemView
		err   error
	)
	if req.Category == "" && req.Tag == "" && req.MinPrice == nil && req.MaxPrice == nil {
		views, err = h.queryUseCase.List(c.Request.Context())
	} else {
		views, err = h.queryUseCase.Filter(c.Request.Context(), appinventory.FilterRequest{
			Category: req.Category,
			Tag:      req.Tag,
			MinPrice: req.MinPrice,
			MaxPrice: req.MaxPrice,
		})
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToItemListResponse(views))
}

// SearchItems 名称前缀搜索
// @Summary      名称前缀搜索
// @Description  按名称词元前缀搜索商品,结果按编码升序;无命中返回空列表
// @Tags         商品
// @Produce      json
// @Param        prefix query string true "名称词元前缀"
// @Success      200 {object} response.Response{data=dto.ItemListResponse}
// @Router       /api/v1/items/search [get]
func (h *ItemHandler) SearchItems(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		response.ErrorWithCode(c, 40902, "缺少prefix参数")
		return
	}

	views, err := h.queryUseCase.Search(c.Request.Context(), prefix)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToItemListResponse(views))
}

// GetHistory 商品编辑历史
// @Summary      商品编辑历史
// @Description  商品的编辑前快照序列,最早的在前;已删除商品的历史仍可查询
// @Tags         商品
// @Produce      json
// @Param        code path string true "商品编码"
// @Success      200 {object} response.Response{data=dto.ItemListResponse}
// @Router       /api/v1/items/{code}/history [get]
func (h *ItemHandler) GetHistory(c *gin.Context) {
	views, err := h.queryUseCase.History(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToItemListResponse(views))
}
