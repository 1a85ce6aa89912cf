package inventory

import "sort"

// HistoryLog 商品变更历史(按编码分组的只增快照序列)
// 设计说明:
// 1. 只增不改(Append-Only):每次成功编辑追加一条"编辑前"快照
// 2. 创建商品不记历史,首次编辑时惰性建链
// 3. 商品删除后历史保留,满足审计需求
type HistoryLog struct {
	entries map[string][]*Item
}

// NewHistoryLog 创建历史日志
func NewHistoryLog() *HistoryLog {
	return &HistoryLog{
		entries: make(map[string][]*Item),
	}
}

// Record 追加一条编辑前快照
// 对在库商品永不失败;入库时做深拷贝,快照追加后不可变
func (h *HistoryLog) Record(code string, snapshot *Item) {
	h.entries[code] = append(h.entries[code], snapshot.Clone())
}

// Entries 返回指定编码的全部快照,最早的在前
// 从未编辑过时返回空切片;返回值是拷贝,调用方改不动日志本身
func (h *HistoryLog) Entries(code string) []*Item {
	stored := h.entries[code]
	result := make([]*Item, len(stored))
	for i, s := range stored {
		result[i] = s.Clone()
	}
	return result
}

// Len 指定编码的历史条数(等于成功编辑次数)
func (h *HistoryLog) Len(code string) int {
	return len(h.entries[code])
}

// Codes 返回所有留有历史的编码,升序(快照导出用)
func (h *HistoryLog) Codes() []string {
	codes := make([]string, 0, len(h.entries))
	for code := range h.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
