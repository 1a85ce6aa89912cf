package inventory

import (
	"context"
	"sync"
)

// Service 库存领域服务(多索引变更引擎的编排层)
// 设计说明:
// 1. 一次逻辑编辑要同时动四套结构:主存储、词元索引、历史日志、告警求值
//    任何半程落地都会留下孤儿词元/错误告警/丢失历史,所以每个操作必须全有或全无
// 2. 原子化手段:先解析后应用(解析失败不碰任何结构),应用阶段的变更函数
//    作用在拷贝上(见ItemStore.ApplyMutation),只有全部成功才更新索引和日志
// 3. 四套结构只在本服务的操作边界内被变更,外部拿不到可变引用
type Service interface {
	// Add 新增商品;编码重复返回ErrDuplicateCode;创建不记历史
	Add(ctx context.Context, params AddItemParams) (*Item, error)

	// Edit 按编辑token流修改商品,返回(旧状态,新状态,被触发的告警规则ID)
	// 商品不存在返回ErrItemNotFound;语法/数值错误时所有结构保持原样
	Edit(ctx context.Context, code string, tokens []EditToken) (*EditResult, error)

	// Remove 删除商品并返回被删实体;历史保留以供审计
	Remove(ctx context.Context, code string) (*Item, error)

	// GetByCode 按编码精确查询
	GetByCode(ctx context.Context, code string) (*Item, error)

	// SearchByNamePrefix 名称词元前缀搜索,按编码升序;无命中返回空切片
	SearchByNamePrefix(ctx context.Context, prefix string) ([]*Item, error)

	// List 全部商品,按编码升序
	List(ctx context.Context) ([]*Item, error)

	// Filter 按分类/标签/价格区间过滤
	Filter(ctx context.Context, params FilterParams) ([]*Item, error)

	// History 商品的编辑前快照序列,最早的在前;从未编辑返回空切片
	History(ctx context.Context, code string) ([]*Item, error)

	// RegisterAlertRule 注册告警规则,返回落库规则(含分配的ID)
	RegisterAlertRule(ctx context.Context, rule *AlertRule) (*AlertRule, error)

	// RemoveAlertRule 按ID删除告警规则
	RemoveAlertRule(ctx context.Context, id string) error

	// AlertRules 全部告警规则,注册顺序
	AlertRules(ctx context.Context) []*AlertRule

	// TriggeredAlerts 对商品当前状态即时求值,返回被触发的规则ID
	TriggeredAlerts(ctx context.Context, code string) ([]string, error)

	// Stats 汇总统计(仪表盘用)
	Stats(ctx context.Context) *Stats

	// Snapshot 导出全量状态(商品+历史+规则)的深拷贝
	Snapshot(ctx context.Context) *Snapshot

	// Restore 用快照整体替换当前状态
	Restore(ctx context.Context, snap *Snapshot) error
}

// AddItemParams 新增商品参数
type AddItemParams struct {
	Code     string
	Name     string
	Quantity int
	Price    int64 // 分
	Category string
	Tags     []string
}

// EditResult 编辑结果
type EditResult struct {
	Old       *Item    // 编辑前快照
	New       *Item    // 编辑后状态
	Triggered []string // 本次编辑后被触发的告警规则ID
}

// FilterParams 过滤参数(零值字段不参与过滤)
type FilterParams struct {
	Category string
	Tag      string
	MinPrice *int64 // 分,价格下界(含)
	MaxPrice *int64 // 分,价格上界(含)
}

// Stats 库存汇总统计
type Stats struct {
	ItemCount      int   `json:"item_count"`      // 商品种数
	TotalUnits     int   `json:"total_units"`     // 库存总件数
	TotalValue     int64 `json:"total_value"`     // 库存总价值(分)
	CategoryCount  int   `json:"category_count"`  // 分类数
	TokenCount     int   `json:"token_count"`     // 搜索词元数
	AlertRuleCount int   `json:"alert_rule_count"`// 告警规则数
	TriggeredItems int   `json:"triggered_items"` // 当前触发告警的商品数
}

// service 领域服务实现
// 一把操作级互斥锁罩住整个变更事务:跨索引不变量要求操作级原子,
// 更细粒度的锁没有意义(见各索引结构的一致性约定)
type service struct {
	mu      sync.Mutex
	store   *ItemStore
	index   *NameTokenIndex
	history *HistoryLog
	alerts  *AlertEngine
}

// NewService 创建库存领域服务(空状态)
func NewService() Service {
	return &service{
		store:   NewItemStore(),
		index:   NewNameTokenIndex(),
		history: NewHistoryLog(),
		alerts:  NewAlertEngine(),
	}
}

// Add 新增商品
func (s *service) Add(_ context.Context, params AddItemParams) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 构造实体(字段校验在工厂方法里完成)
	item, err := NewItem(params.Code, params.Name, params.Quantity, params.Price, params.Category, params.Tags)
	if err != nil {
		return nil, err
	}

	// 2. 入主存储(编码重复在这里拦截,索引未动)
	if err := s.store.Insert(item); err != nil {
		return nil, err
	}

	// 3. 登记搜索词元;创建不记历史(历史从首次编辑开始)
	s.index.AddItem(item.Code, item.NameTokens())

	return item.Clone(), nil
}

// Edit 编辑商品(核心事务)
// 执行顺序:存在性检查 → 解析 → 应用 → 词元差量 → 记历史 → 告警求值
// 前三步任何失败都不会触碰词元索引和历史日志
func (s *service) Edit(_ context.Context, code string, tokens []EditToken) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 存在性检查(编码不存在优先于语法错误报出)
	if !s.store.Contains(code) {
		return nil, ErrItemNotFound
	}

	// 2. 解析编辑语法(parse-then-apply:此处失败,所有结构原样)
	edits, err := ParseFieldEdits(tokens)
	if err != nil {
		return nil, err
	}

	// 3. 应用字段变更(作用在拷贝上,出错自动回滚)
	before, after, err := s.store.ApplyMutation(code, edits.apply)
	if err != nil {
		return nil, err
	}

	// 4. 词元差量更新:只动OLD−NEW和NEW−OLD,交集词元不重建
	s.index.Retokenize(code, Tokenize(before.Name), Tokenize(after.Name))

	// 5. 追加编辑前快照(历史长度+1,与成功编辑一一对应)
	s.history.Record(code, before)

	// 6. 对编辑后状态做告警求值(纯函数,不缓存)
	triggered := s.alerts.Evaluate(after)

	return &EditResult{
		Old:       before.Clone(),
		New:       after,
		Triggered: triggered,
	}, nil
}

// Remove 删除商品
func (s *service) Remove(_ context.Context, code string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.store.Remove(code)
	if err != nil {
		return nil, err
	}

	// 用被删实体的词元清索引;历史不删(审计保留)
	s.index.RemoveItem(code, item.NameTokens())

	return item, nil
}

// GetByCode 精确查询
func (s *service) GetByCode(_ context.Context, code string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(code)
}

// SearchByNamePrefix 前缀搜索
func (s *service) SearchByNamePrefix(_ context.Context, prefix string) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes := s.index.SearchPrefix(prefix)
	items := make([]*Item, 0, len(codes))
	for _, code := range codes {
		item, err := s.store.Get(code)
		if err != nil {
			// 索引指向不存在的商品说明跨索引不变量已被破坏
			return nil, ErrItemNotFound
		}
		items = append(items, item)
	}
	return items, nil
}

// List 全量列表
func (s *service) List(_ context.Context) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All(), nil
}

// Filter 条件过滤
func (s *service) Filter(_ context.Context, params FilterParams) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*Item
	for _, item := range s.store.All() {
		if params.Category != "" && item.Category != params.Category {
			continue
		}
		if params.Tag != "" && !item.HasTag(params.Tag) {
			continue
		}
		if params.MinPrice != nil && item.Price < *params.MinPrice {
			continue
		}
		if params.MaxPrice != nil && item.Price > *params.MaxPrice {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

// History 编辑历史
func (s *service) History(_ context.Context, code string) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries(code), nil
}

// RegisterAlertRule 注册告警规则
func (s *service) RegisterAlertRule(_ context.Context, rule *AlertRule) (*AlertRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts.Register(rule)
}

// RemoveAlertRule 删除告警规则
func (s *service) RemoveAlertRule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts.Remove(id)
}

// AlertRules 规则列表
func (s *service) AlertRules(_ context.Context) []*AlertRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts.Rules()
}

// TriggeredAlerts 即时告警求值
func (s *service) TriggeredAlerts(_ context.Context, code string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.store.Get(code)
	if err != nil {
		return nil, err
	}
	return s.alerts.Evaluate(item), nil
}

// Stats 汇总统计
func (s *service) Stats(_ context.Context) *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{
		ItemCount:      s.store.Len(),
		TokenCount:     s.index.TokenCount(),
		AlertRuleCount: s.alerts.Len(),
	}

	categories := make(map[string]struct{})
	for _, item := range s.store.All() {
		stats.TotalUnits += item.Quantity
		stats.TotalValue += item.Price * int64(item.Quantity)
		if item.Category != "" {
			categories[item.Category] = struct{}{}
		}
		if len(s.alerts.Evaluate(item)) > 0 {
			stats.TriggeredItems++
		}
	}
	stats.CategoryCount = len(categories)

	return stats
}
