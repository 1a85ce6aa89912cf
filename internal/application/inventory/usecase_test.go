package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
)

// fakeSnapshotRepo 记录落盘调用的内存实现
type fakeSnapshotRepo struct {
	saved   []*inventory.Snapshot
	loadRet *inventory.Snapshot
	saveErr error
	loadErr error
}

func (f *fakeSnapshotRepo) Save(_ context.Context, snap *inventory.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeSnapshotRepo) Load(_ context.Context) (*inventory.Snapshot, error) {
	return f.loadRet, f.loadErr
}

// fakeNotifier 记录告警通知的内存实现
type fakeNotifier struct {
	items   []*inventory.Item
	ruleIDs [][]string
	err     error
}

func (f *fakeNotifier) NotifyTriggered(_ context.Context, item *inventory.Item, ruleIDs []string) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, item)
	f.ruleIDs = append(f.ruleIDs, ruleIDs)
	return nil
}

func newUseCaseFixture(t *testing.T) (inventory.Service, *fakeSnapshotRepo, *fakeNotifier, *Autosaver) {
	t.Helper()
	svc := inventory.NewService()
	repo := &fakeSnapshotRepo{}
	notifier := &fakeNotifier{}
	autosaver := NewAutosaver(svc, repo, true, time.Second)
	return svc, repo, notifier, autosaver
}

func TestAddItemUseCase(t *testing.T) {
	svc, repo, _, autosaver := newUseCaseFixture(t)
	uc := NewAddItemUseCase(svc, autosaver)

	view, err := uc.Execute(context.Background(), AddItemRequest{
		Code:     "001",
		Name:     "红色 圆珠笔",
		Quantity: 10,
		Price:    350,
		Category: "文具",
	})
	require.NoError(t, err)
	assert.Equal(t, "001", view.Code)
	assert.Equal(t, int64(350), view.Price)

	// 入库成功后自动落盘一次
	require.Len(t, repo.saved, 1)
	assert.Len(t, repo.saved[0].Items, 1)

	// 编码重复:领域错误原样透出,且不再落盘
	_, err = uc.Execute(context.Background(), AddItemRequest{Code: "001", Name: "别的", Quantity: 1, Price: 1})
	assert.ErrorIs(t, err, inventory.ErrDuplicateCode)
	assert.Len(t, repo.saved, 1)
}

func TestEditItemUseCaseNotifiesAlerts(t *testing.T) {
	svc, repo, notifier, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	editUC := NewEditItemUseCase(svc, notifier, autosaver)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 10, Price: 350})
	require.NoError(t, err)

	rule, err := svc.RegisterAlertRule(context.Background(), &inventory.AlertRule{
		Code:      "001",
		Field:     inventory.AlertFieldQuantity,
		Direction: inventory.AlertAtMost,
		Threshold: 5,
	})
	require.NoError(t, err)

	resp, err := editUC.Execute(context.Background(), EditItemRequest{
		Code:   "001",
		Tokens: []string{"qty/3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Old.Quantity)
	assert.Equal(t, 3, resp.New.Quantity)
	assert.Equal(t, []string{rule.ID}, resp.Triggered)

	// 告警发布被调用且携带编辑后的状态
	require.Len(t, notifier.items, 1)
	assert.Equal(t, 3, notifier.items[0].Quantity)
	assert.Equal(t, []string{rule.ID}, notifier.ruleIDs[0])

	// 入库+编辑各落盘一次
	assert.Len(t, repo.saved, 2)
}

func TestEditItemUseCaseNotifierFailureTolerated(t *testing.T) {
	svc, _, notifier, autosaver := newUseCaseFixture(t)
	notifier.err = errors.New("mq down")
	addUC := NewAddItemUseCase(svc, autosaver)
	editUC := NewEditItemUseCase(svc, notifier, autosaver)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 10, Price: 350})
	require.NoError(t, err)
	_, err = svc.RegisterAlertRule(context.Background(), &inventory.AlertRule{
		Code:      "001",
		Field:     inventory.AlertFieldQuantity,
		Direction: inventory.AlertAtMost,
		Threshold: 5,
	})
	require.NoError(t, err)

	// 通知失败不影响编辑结果
	resp, err := editUC.Execute(context.Background(), EditItemRequest{Code: "001", Tokens: []string{"qty/2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.New.Quantity)
}

func TestEditItemUseCaseParseFailure(t *testing.T) {
	svc, repo, notifier, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	editUC := NewEditItemUseCase(svc, notifier, autosaver)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 10, Price: 350})
	require.NoError(t, err)
	saves := len(repo.saved)

	// 数量非法:编辑失败,不通知不落盘
	_, err = editUC.Execute(context.Background(), EditItemRequest{Code: "001", Tokens: []string{"qty/abc"}})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	assert.Empty(t, notifier.items)
	assert.Len(t, repo.saved, saves)
}

func TestRemoveItemUseCase(t *testing.T) {
	svc, repo, _, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	removeUC := NewRemoveItemUseCase(svc, autosaver)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 10, Price: 350})
	require.NoError(t, err)

	view, err := removeUC.Execute(context.Background(), "001")
	require.NoError(t, err)
	assert.Equal(t, "001", view.Code)
	assert.Equal(t, "圆珠笔", view.Name)

	_, err = removeUC.Execute(context.Background(), "001")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)

	// 删除后的落盘不再包含该商品
	last := repo.saved[len(repo.saved)-1]
	assert.Empty(t, last.Items)
}

func TestQueryItemsUseCase(t *testing.T) {
	svc, _, _, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	queryUC := NewQueryItemsUseCase(svc)

	for _, req := range []AddItemRequest{
		{Code: "002", Name: "蓝色 钢笔", Quantity: 5, Price: 1200, Category: "文具"},
		{Code: "001", Name: "蓝色 圆珠笔", Quantity: 10, Price: 350, Category: "文具", Tags: []string{"促销"}},
		{Code: "003", Name: "订书机", Quantity: 3, Price: 2500, Category: "办公"},
	} {
		_, err := addUC.Execute(context.Background(), req)
		require.NoError(t, err)
	}

	// 列表按编码升序
	all, err := queryUC.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "001", all[0].Code)
	assert.Equal(t, "003", all[2].Code)

	// 前缀搜索
	hits, err := queryUC.Search(context.Background(), "蓝")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "001", hits[0].Code)

	// 过滤:分类+价格上界
	maxPrice := int64(1000)
	filtered, err := queryUC.Filter(context.Background(), FilterRequest{Category: "文具", MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "001", filtered[0].Code)

	_, err = queryUC.GetByCode(context.Background(), "999")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestManageAlertsUseCase(t *testing.T) {
	svc, repo, _, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	alertUC := NewManageAlertsUseCase(svc, autosaver)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 3, Price: 350, Category: "文具"})
	require.NoError(t, err)

	rule, err := alertUC.Register(context.Background(), RegisterRuleRequest{
		Code:      "001",
		Field:     "quantity",
		Direction: "at_most",
		Threshold: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)

	// 非法字段名在领域层被拒绝
	_, err = alertUC.Register(context.Background(), RegisterRuleRequest{
		Code: "001", Field: "weight", Direction: "at_most", Threshold: 5,
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidAlertRule)

	triggered, err := alertUC.Triggered(context.Background(), "001")
	require.NoError(t, err)
	assert.Equal(t, []string{rule.ID}, triggered)

	rules := alertUC.List(context.Background())
	require.Len(t, rules, 1)

	require.NoError(t, alertUC.Remove(context.Background(), rule.ID))
	assert.Empty(t, alertUC.List(context.Background()))

	// 规则注册/删除也各触发一次落盘(加上入库共3次)
	assert.Len(t, repo.saved, 3)
}

func TestAutosaverDisabled(t *testing.T) {
	svc := inventory.NewService()
	repo := &fakeSnapshotRepo{}
	autosaver := NewAutosaver(svc, repo, false, time.Second)
	uc := NewAddItemUseCase(svc, autosaver)

	_, err := uc.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 1, Price: 100})
	require.NoError(t, err)
	assert.Empty(t, repo.saved)

	// 运行时打开后开始落盘
	autosaver.SetEnabled(true)
	require.True(t, autosaver.Enabled())
	_, err = uc.Execute(context.Background(), AddItemRequest{Code: "002", Name: "钢笔", Quantity: 1, Price: 100})
	require.NoError(t, err)
	assert.Len(t, repo.saved, 1)
}

func TestAutosaverSaveFailureTolerated(t *testing.T) {
	svc := inventory.NewService()
	repo := &fakeSnapshotRepo{saveErr: errors.New("db down")}
	autosaver := NewAutosaver(svc, repo, true, time.Second)
	uc := NewAddItemUseCase(svc, autosaver)

	// 落盘失败不影响入库
	view, err := uc.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 1, Price: 100})
	require.NoError(t, err)
	assert.Equal(t, "001", view.Code)
}

func TestSnapshotUseCase(t *testing.T) {
	svc, repo, _, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	snapUC := NewSnapshotUseCase(svc, repo, time.Second)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "圆珠笔", Quantity: 10, Price: 350})
	require.NoError(t, err)

	result, err := snapUC.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemCount)
	assert.Equal(t, 0, result.RuleCount)

	// 未配置存储时手动落盘报错
	disabled := NewSnapshotUseCase(svc, nil, time.Second)
	_, err = disabled.Save(context.Background())
	assert.ErrorIs(t, err, inventory.ErrSnapshotDisabled)
}

func TestSnapshotUseCaseRestoreOnStart(t *testing.T) {
	// 先在一个服务里造出状态并导出
	src := inventory.NewService()
	_, err := src.Add(context.Background(), inventory.AddItemParams{Code: "001", Name: "圆珠笔", Quantity: 10, Price: 350})
	require.NoError(t, err)
	snap := src.Snapshot(context.Background())

	// 新服务启动时从快照恢复
	svc := inventory.NewService()
	repo := &fakeSnapshotRepo{loadRet: snap}
	snapUC := NewSnapshotUseCase(svc, repo, time.Second)
	require.NoError(t, snapUC.RestoreOnStart(context.Background()))

	item, err := svc.GetByCode(context.Background(), "001")
	require.NoError(t, err)
	assert.Equal(t, "圆珠笔", item.Name)

	// 无历史快照:空操作
	empty := inventory.NewService()
	emptyUC := NewSnapshotUseCase(empty, &fakeSnapshotRepo{}, time.Second)
	require.NoError(t, emptyUC.RestoreOnStart(context.Background()))
	items, err := empty.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDashboardUseCase(t *testing.T) {
	svc, _, _, autosaver := newUseCaseFixture(t)
	addUC := NewAddItemUseCase(svc, autosaver)
	dashUC := NewDashboardUseCase(svc)

	_, err := addUC.Execute(context.Background(), AddItemRequest{Code: "001", Name: "红色 圆珠笔", Quantity: 10, Price: 350, Category: "文具"})
	require.NoError(t, err)
	_, err = addUC.Execute(context.Background(), AddItemRequest{Code: "002", Name: "红色 钢笔", Quantity: 5, Price: 1200, Category: "文具"})
	require.NoError(t, err)

	stats := dashUC.Execute(context.Background())
	assert.Equal(t, 2, stats.ItemCount)
	assert.Equal(t, 15, stats.TotalUnits)
	assert.Equal(t, int64(10*350+5*1200), stats.TotalValue)
	assert.Equal(t, 1, stats.CategoryCount)
}
