package inventory

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Snapshot 全量状态快照(商品+历史+告警规则)
// 设计说明:
// 1. 这是核心对持久化协作方暴露的唯一状态视图,导出即深拷贝
// 2. 落盘格式由infrastructure层的SnapshotRepository实现决定,核心不关心
type Snapshot struct {
	Items     []*Item            // 全部在库商品,编码升序
	Histories map[string][]*Item // 编码→编辑前快照序列(含已删除商品的遗留历史)
	Rules     []*AlertRule       // 告警规则,注册顺序
	TakenAt   time.Time          // 快照时间
}

// Snapshot 导出全量状态
func (s *service) Snapshot(_ context.Context) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Items:     s.store.All(),
		Histories: make(map[string][]*Item, len(s.history.entries)),
		Rules:     s.alerts.Rules(),
		TakenAt:   time.Now(),
	}
	for _, code := range s.history.Codes() {
		snap.Histories[code] = s.history.Entries(code)
	}
	return snap
}

// Restore 用快照整体重建状态
// 教学要点:不是逐条打补丁,而是从零重放——商品重新入库、词元重新登记、
// 历史和规则原样装回,保证恢复后的索引与重放加载完全一致
func (s *service) Restore(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return ErrInvalidSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store := NewItemStore()
	index := NewNameTokenIndex()
	history := NewHistoryLog()
	alerts := NewAlertEngine()

	for _, item := range snap.Items {
		clone := item.Clone()
		if clone == nil || clone.Code == "" {
			return ErrInvalidSnapshot
		}
		if err := store.Insert(clone); err != nil {
			return ErrInvalidSnapshot // 快照里编码重复
		}
		index.AddItem(clone.Code, clone.NameTokens())
	}

	for code, entries := range snap.Histories {
		for _, entry := range entries {
			history.Record(code, entry)
		}
	}

	maxSeq := 0
	for _, rule := range snap.Rules {
		if _, err := alerts.Register(rule); err != nil {
			return ErrInvalidSnapshot
		}
		// 恢复自动分配ID的序号,避免新规则撞ID
		if n, ok := parseRuleSeq(rule.ID); ok && n > maxSeq {
			maxSeq = n
		}
	}
	alerts.seq = maxSeq

	// 全部校验通过后才整体切换(恢复失败时旧状态原样保留)
	s.store = store
	s.index = index
	s.history = history
	s.alerts = alerts
	return nil
}

// parseRuleSeq 从自动分配的规则ID(AR001)里取回序号
func parseRuleSeq(id string) (int, bool) {
	if !strings.HasPrefix(id, "AR") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, "AR"))
	if err != nil {
		return 0, false
	}
	return n, true
}
