package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行前置条件：
// 1. API进程已启动（默认http://localhost:8080）
// 2. 设置环境变量STOCKPILE_TEST_API=1（未设置时测试自动跳过）
// 3. 测试用操作员凭据通过STOCKPILE_TEST_USERNAME/STOCKPILE_TEST_PASSWORD传入

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL API基础URL(可用STOCKPILE_TEST_BASE_URL覆盖)
func BaseURL() string {
	if url := os.Getenv("STOCKPILE_TEST_BASE_URL"); url != "" {
		return url + "/api/v1"
	}
	return "http://localhost:8080/api/v1"
}

// RequireAPI 未开启集成测试开关时跳过
func RequireAPI(t *testing.T) {
	t.Helper()
	if os.Getenv("STOCKPILE_TEST_API") == "" {
		t.Skip("跳过集成测试: 未设置STOCKPILE_TEST_API(需要运行中的API进程)")
	}
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	Operator     string `json:"operator"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ItemData 商品响应数据
type ItemData struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Price     int64    `json:"price"`
	PriceYuan string   `json:"price_yuan"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
}

// ItemListData 商品列表响应数据
type ItemListData struct {
	List  []ItemData `json:"list"`
	Total int        `json:"total"`
}

// EditData 编辑响应数据(前后对照)
type EditData struct {
	Old       ItemData `json:"old"`
	New       ItemData `json:"new"`
	Triggered []string `json:"triggered"`
}

// RuleData 告警规则响应数据
type RuleData struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Category  string `json:"category"`
	Field     string `json:"field"`
	Direction string `json:"direction"`
	Threshold int64  `json:"threshold"`
}

// StatsData 仪表盘响应数据
type StatsData struct {
	ItemCount      int   `json:"item_count"`
	TotalUnits     int   `json:"total_units"`
	TotalValue     int64 `json:"total_value"`
	CategoryCount  int   `json:"category_count"`
	TokenCount     int   `json:"token_count"`
	AlertRuleCount int   `json:"alert_rule_count"`
	TriggeredItems int   `json:"triggered_items"`
}

// DoJSON 发送请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func DoJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(respBody))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, "POST", url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, "GET", url, nil, token)
}

// GenerateTestCode 生成唯一的测试商品编码
//
// 教学说明：
// 使用纳秒时间戳确保编码唯一性，避免测试重复运行时编码冲突
// UPC-A格式：12位数字
func GenerateTestCode() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("69%010d", timestamp%10000000000)
}

// LoginTestOperator 登录测试操作员并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了登录流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func LoginTestOperator(t *testing.T) string {
	t.Helper()

	username := os.Getenv("STOCKPILE_TEST_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("STOCKPILE_TEST_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	loginReq := map[string]string{
		"username": username,
		"password": password,
	}

	loginResp := PostJSON(t, BaseURL()+"/session/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return loginData.AccessToken
}

// AddTestItem 入库测试商品并返回编码
//
// 教学说明：
// 封装了商品入库流程，返回编码供后续测试使用
func AddTestItem(t *testing.T, token, name string, quantity int, price int64) string {
	t.Helper()

	code := GenerateTestCode()
	itemReq := map[string]interface{}{
		"code":     code,
		"name":     name,
		"quantity": quantity,
		"price":    price,
		"category": "集成测试",
	}

	itemResp := PostJSON(t, BaseURL()+"/items", itemReq, token)
	require.Equal(t, 0, itemResp.Code, "商品入库失败: %s", itemResp.Message)

	return code
}
