package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, code, name string, quantity int, price int64, category string) *Item {
	t.Helper()
	item, err := NewItem(code, name, quantity, price, category, nil)
	require.NoError(t, err)
	return item
}

// TestAlertEngine_Evaluate 低库存规则触发与重新求值
func TestAlertEngine_Evaluate(t *testing.T) {
	engine := NewAlertEngine()
	rule, err := engine.Register(&AlertRule{
		Code:      "X",
		Field:     AlertFieldQuantity,
		Direction: AlertAtMost,
		Threshold: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "AR001", rule.ID)

	item := mustItem(t, "X", "Widget", 10, 100, "")
	assert.Empty(t, engine.Evaluate(item))

	// 数量降到阈值以下触发
	item.Quantity = 3
	assert.Equal(t, []string{"AR001"}, engine.Evaluate(item))

	// 不缓存:同一状态再求值结果一致
	assert.Equal(t, []string{"AR001"}, engine.Evaluate(item))
}

// TestAlertEngine_CodeBeforeCategory 编码规则先于分类规则报出
func TestAlertEngine_CodeBeforeCategory(t *testing.T) {
	engine := NewAlertEngine()

	// 故意先注册分类规则,再注册编码规则
	catRule, err := engine.Register(&AlertRule{
		Category:  "stationery",
		Field:     AlertFieldQuantity,
		Direction: AlertAtMost,
		Threshold: 10,
	})
	require.NoError(t, err)
	codeRule, err := engine.Register(&AlertRule{
		Code:      "001",
		Field:     AlertFieldQuantity,
		Direction: AlertAtMost,
		Threshold: 10,
	})
	require.NoError(t, err)

	item := mustItem(t, "001", "Red Pen", 2, 150, "stationery")
	assert.Equal(t, []string{codeRule.ID, catRule.ID}, engine.Evaluate(item))

	// 其他分类的商品只适用编码不匹配的情况:都不触发
	other := mustItem(t, "002", "Apple", 2, 150, "food")
	assert.Empty(t, engine.Evaluate(other))
}

// TestAlertEngine_AtLeast 上界方向
func TestAlertEngine_AtLeast(t *testing.T) {
	engine := NewAlertEngine()
	rule, err := engine.Register(&AlertRule{
		Code:      "001",
		Field:     AlertFieldPrice,
		Direction: AlertAtLeast,
		Threshold: 10000, // 100元
	})
	require.NoError(t, err)

	cheap := mustItem(t, "001", "Pen", 1, 9999, "")
	assert.Empty(t, engine.Evaluate(cheap))

	expensive := mustItem(t, "001", "Pen", 1, 10000, "")
	assert.Equal(t, []string{rule.ID}, engine.Evaluate(expensive))
}

// TestAlertEngine_Validate 非法规则被拒绝
func TestAlertEngine_Validate(t *testing.T) {
	engine := NewAlertEngine()

	// 作用域二选一:都空或都填均非法
	_, err := engine.Register(&AlertRule{Field: AlertFieldQuantity, Direction: AlertAtMost, Threshold: 1})
	assert.ErrorIs(t, err, ErrInvalidAlertRule)

	_, err = engine.Register(&AlertRule{
		Code: "001", Category: "c",
		Field: AlertFieldQuantity, Direction: AlertAtMost, Threshold: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidAlertRule)

	_, err = engine.Register(&AlertRule{Code: "001", Field: "weight", Direction: AlertAtMost, Threshold: 1})
	assert.ErrorIs(t, err, ErrInvalidAlertRule)

	_, err = engine.Register(&AlertRule{Code: "001", Field: AlertFieldQuantity, Direction: AlertAtMost, Threshold: -1})
	assert.ErrorIs(t, err, ErrInvalidAlertRule)
}

// TestAlertEngine_DuplicateAndRemove 重复规则拒绝,删除后可重新注册
func TestAlertEngine_DuplicateAndRemove(t *testing.T) {
	engine := NewAlertEngine()
	rule, err := engine.Register(&AlertRule{
		Code: "001", Field: AlertFieldQuantity, Direction: AlertAtMost, Threshold: 5,
	})
	require.NoError(t, err)

	// 同作用域同字段同方向视为重复(阈值不同也不行)
	_, err = engine.Register(&AlertRule{
		Code: "001", Field: AlertFieldQuantity, Direction: AlertAtMost, Threshold: 8,
	})
	assert.ErrorIs(t, err, ErrDuplicateAlertRule)

	require.NoError(t, engine.Remove(rule.ID))
	assert.ErrorIs(t, engine.Remove(rule.ID), ErrAlertRuleNotFound)

	_, err = engine.Register(&AlertRule{
		Code: "001", Field: AlertFieldQuantity, Direction: AlertAtMost, Threshold: 8,
	})
	assert.NoError(t, err)
}
