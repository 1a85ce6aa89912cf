package inventory

import "context"

// 核心对外部协作方暴露的端口(领域层定义接口,infrastructure层实现)
// 设计说明:
// 1. 依赖倒置:核心不知道快照落在MySQL还是别处,也不知道告警事件去了哪个队列
// 2. 落盘格式、序列化、投递语义都是协作方的事,核心只给全量状态和事件

// SnapshotRepository 全量快照仓储
type SnapshotRepository interface {
	// Save 持久化一份全量快照(整体覆盖上一份)
	Save(ctx context.Context, snap *Snapshot) error

	// Load 读取最近一份快照;从未保存过时返回(nil, nil)
	Load(ctx context.Context) (*Snapshot, error)
}

// AlertNotifier 告警事件通知方
// 编辑触发告警后由应用层调用;投递失败不影响已完成的库存变更
type AlertNotifier interface {
	NotifyTriggered(ctx context.Context, item *Item, ruleIDs []string) error
}
