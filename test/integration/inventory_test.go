package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInventoryWorkflow 库存完整工作流集成测试
//
// 测试流程：
// 1. 操作员登录获取Token
// 2. 商品入库
// 3. 精确查询与前缀搜索
// 4. 编辑(改名+改数量)并验证历史
// 5. 注册告警规则并用编辑触发
// 6. 删除商品(历史保留)
func TestInventoryWorkflow(t *testing.T) {
	RequireAPI(t)
	token := LoginTestOperator(t)

	var code string

	t.Run("商品入库", func(t *testing.T) {
		code = AddTestItem(t, token, "集成 圆珠笔", 10, 350)

		// 未登录入库应被拒绝
		resp := PostJSON(t, BaseURL()+"/items", map[string]interface{}{
			"code": GenerateTestCode(), "name": "越权商品", "quantity": 1, "price": 100,
		}, "")
		assert.Equal(t, 40100, resp.Code, "未登录入库应返回40100")

		// 编码重复应返回业务错误
		resp = PostJSON(t, BaseURL()+"/items", map[string]interface{}{
			"code": code, "name": "重复商品", "quantity": 1, "price": 100,
		}, token)
		assert.Equal(t, 40001, resp.Code, "编码重复应返回40001")
	})

	t.Run("精确查询与前缀搜索", func(t *testing.T) {
		resp := GetJSON(t, BaseURL()+"/items/"+code, "")
		require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

		var item ItemData
		require.NoError(t, json.Unmarshal(resp.Data, &item))
		assert.Equal(t, "集成 圆珠笔", item.Name)
		assert.Equal(t, "3.50", item.PriceYuan)

		// 名称词元前缀搜索
		resp = GetJSON(t, BaseURL()+"/items/search?prefix=集成", "")
		require.Equal(t, 0, resp.Code)

		var list ItemListData
		require.NoError(t, json.Unmarshal(resp.Data, &list))

		found := false
		for _, it := range list.List {
			if it.Code == code {
				found = true
			}
		}
		assert.True(t, found, "前缀搜索应命中测试商品")
	})

	t.Run("编辑与历史", func(t *testing.T) {
		// n/开头改名,qty/改数量,p/改价格(元)
		resp := DoJSON(t, "PATCH", BaseURL()+"/items/"+code, map[string]interface{}{
			"tokens": []string{"n/集成", "钢笔", "qty/6"},
		}, token)
		require.Equal(t, 0, resp.Code, "编辑失败: %s", resp.Message)

		var edit EditData
		require.NoError(t, json.Unmarshal(resp.Data, &edit))
		assert.Equal(t, "集成 圆珠笔", edit.Old.Name)
		assert.Equal(t, "集成 钢笔", edit.New.Name)
		assert.Equal(t, 6, edit.New.Quantity)

		// 非法数量:编辑整体不生效
		resp = DoJSON(t, "PATCH", BaseURL()+"/items/"+code, map[string]interface{}{
			"tokens": []string{"qty/abc"},
		}, token)
		assert.Equal(t, 40903, resp.Code, "非法数量应返回40903")

		// 历史里应有编辑前的快照
		resp = GetJSON(t, BaseURL()+"/items/"+code+"/history", "")
		require.Equal(t, 0, resp.Code)

		var history ItemListData
		require.NoError(t, json.Unmarshal(resp.Data, &history))
		require.GreaterOrEqual(t, history.Total, 1)
		assert.Equal(t, "集成 圆珠笔", history.List[0].Name, "历史首条应是最早的编辑前快照")
	})

	t.Run("告警规则触发", func(t *testing.T) {
		// 注册编码级低库存规则
		resp := PostJSON(t, BaseURL()+"/alerts", map[string]interface{}{
			"code":      code,
			"field":     "quantity",
			"direction": "at_most",
			"threshold": 5,
		}, token)
		require.Equal(t, 0, resp.Code, "规则注册失败: %s", resp.Message)

		var rule RuleData
		require.NoError(t, json.Unmarshal(resp.Data, &rule))
		require.NotEmpty(t, rule.ID)

		// 数量降到阈值以下,编辑响应应带触发的规则ID
		editResp := DoJSON(t, "PATCH", BaseURL()+"/items/"+code, map[string]interface{}{
			"tokens": []string{"qty/3"},
		}, token)
		require.Equal(t, 0, editResp.Code)

		var edit EditData
		require.NoError(t, json.Unmarshal(editResp.Data, &edit))
		assert.Contains(t, edit.Triggered, rule.ID)

		// 即时求值接口结论一致
		alertResp := GetJSON(t, fmt.Sprintf("%s/items/%s/alerts", BaseURL(), code), "")
		require.Equal(t, 0, alertResp.Code)

		var triggered struct {
			Code      string   `json:"code"`
			Triggered []string `json:"triggered"`
		}
		require.NoError(t, json.Unmarshal(alertResp.Data, &triggered))
		assert.Contains(t, triggered.Triggered, rule.ID)

		// 清理规则
		delResp := DoJSON(t, "DELETE", BaseURL()+"/alerts/"+rule.ID, nil, token)
		assert.Equal(t, 0, delResp.Code)
	})

	t.Run("删除商品历史保留", func(t *testing.T) {
		resp := DoJSON(t, "DELETE", BaseURL()+"/items/"+code, nil, token)
		require.Equal(t, 0, resp.Code, "删除失败: %s", resp.Message)

		// 再查详情:商品不存在
		resp = GetJSON(t, BaseURL()+"/items/"+code, "")
		assert.Equal(t, 40401, resp.Code)

		// 历史仍可查询(审计需求)
		resp = GetJSON(t, BaseURL()+"/items/"+code+"/history", "")
		require.Equal(t, 0, resp.Code)

		var history ItemListData
		require.NoError(t, json.Unmarshal(resp.Data, &history))
		assert.GreaterOrEqual(t, history.Total, 1, "删除后历史应保留")
	})
}

// TestDashboardStats 仪表盘统计集成测试
func TestDashboardStats(t *testing.T) {
	RequireAPI(t)
	token := LoginTestOperator(t)

	before := getStats(t)
	AddTestItem(t, token, "统计 订书机", 4, 2500)
	after := getStats(t)

	assert.Equal(t, before.ItemCount+1, after.ItemCount, "入库后商品种数+1")
	assert.Equal(t, before.TotalUnits+4, after.TotalUnits, "入库后总件数+4")
	assert.Equal(t, before.TotalValue+4*2500, after.TotalValue, "入库后总价值增加")
}

func getStats(t *testing.T) *StatsData {
	t.Helper()
	resp := GetJSON(t, BaseURL()+"/stats", "")
	require.Equal(t, 0, resp.Code, "统计查询失败: %s", resp.Message)

	var stats StatsData
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	return &stats
}

// TestSessionLifecycle 会话生命周期集成测试
func TestSessionLifecycle(t *testing.T) {
	RequireAPI(t)

	// 错误密码登录失败
	resp := PostJSON(t, BaseURL()+"/session/login", map[string]string{
		"username": "admin",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, 40103, resp.Code, "错误密码应返回40103")

	// 正常登录→登出→Token失效
	token := LoginTestOperator(t)

	logoutResp := PostJSON(t, BaseURL()+"/session/logout", nil, token)
	require.Equal(t, 0, logoutResp.Code, "登出失败: %s", logoutResp.Message)

	// 登出后的Token进黑名单,变更接口拒绝
	addResp := PostJSON(t, BaseURL()+"/items", map[string]interface{}{
		"code": GenerateTestCode(), "name": "失效Token商品", "quantity": 1, "price": 100,
	}, token)
	assert.Equal(t, 40102, addResp.Code, "登出后Token应失效")
}
