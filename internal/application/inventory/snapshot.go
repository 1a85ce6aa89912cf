package inventory

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
)

// SnapshotUseCase 快照手动落盘/启动恢复用例
// 设计说明:
// 1. 手动落盘走与自动落盘相同的存储接口,但不经过熔断器——
//    操作者显式要求落盘时应该看到真实的失败,而不是熔断短路
// 2. 启动恢复是整体替换:恢复失败时内存保持空态,服务照常启动
type SnapshotUseCase struct {
	service inventory.Service
	repo    inventory.SnapshotRepository
	timeout time.Duration
}

// NewSnapshotUseCase 创建快照用例;repo为nil时Save/RestoreOnStart均为空操作
func NewSnapshotUseCase(service inventory.Service, repo inventory.SnapshotRepository, timeout time.Duration) *SnapshotUseCase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SnapshotUseCase{
		service: service,
		repo:    repo,
		timeout: timeout,
	}
}

// SaveResult 手动落盘结果
type SaveResult struct {
	ItemCount  int `json:"item_count"`  // 落盘的商品数
	RuleCount  int `json:"rule_count"`  // 落盘的规则数
	EntryCount int `json:"entry_count"` // 落盘的历史条目数
}

// Save 手动导出快照并落盘
func (uc *SnapshotUseCase) Save(ctx context.Context) (*SaveResult, error) {
	if uc.repo == nil {
		return nil, inventory.ErrSnapshotDisabled
	}

	snap := uc.service.Snapshot(ctx)

	saveCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	err := uc.repo.Save(saveCtx, snap)
	observeSnapshotSave("manual", err)
	if err != nil {
		return nil, err
	}

	entryCount := 0
	for _, entries := range snap.Histories {
		entryCount += len(entries)
	}
	return &SaveResult{
		ItemCount:  len(snap.Items),
		RuleCount:  len(snap.Rules),
		EntryCount: entryCount,
	}, nil
}

// RestoreOnStart 启动时从最近一次快照恢复全量状态
// 没有历史快照(首次启动)不算错误,直接以空态运行
func (uc *SnapshotUseCase) RestoreOnStart(ctx context.Context) error {
	if uc.repo == nil {
		return nil
	}

	snap, err := uc.repo.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		log.Printf("📦 无历史快照,以空库存启动")
		return nil
	}

	if err := uc.service.Restore(ctx, snap); err != nil {
		return err
	}

	log.Printf("📦 快照恢复完成: 商品%d件, 告警规则%d条", len(snap.Items), len(snap.Rules))
	return nil
}
