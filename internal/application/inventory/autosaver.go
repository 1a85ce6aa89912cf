package inventory

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/circuitbreaker"
	"github.com/xiebiao/stockpile/pkg/metrics"
)

// Autosaver 变更后自动落盘组件
// 设计说明:
// 1. 每次成功变更(入库/编辑/删除/规则变更)后把全量快照写入存储
// 2. 落盘失败只记日志不回滚内存变更——内存才是权威状态,快照是灾备副本
// 3. 用熔断器包住存储调用:数据库持续故障时快速失败,避免每次变更都阻塞
//    在慢路径上(熔断打开期间变更照常进行,只是不落盘)
type Autosaver struct {
	service inventory.Service
	repo    inventory.SnapshotRepository
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	enabled atomic.Bool
}

// NewAutosaver 创建自动落盘组件
// repo为nil时组件处于禁用态(纯内存运行),Trigger直接返回
func NewAutosaver(service inventory.Service, repo inventory.SnapshotRepository, enabled bool, timeout time.Duration) *Autosaver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	a := &Autosaver{
		service: service,
		repo:    repo,
		timeout: timeout,
		breaker: circuitbreaker.NewCircuitBreaker("snapshot-autosave", circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
	a.breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("🔌 熔断器[%s]状态变化: %s → %s", name, from, to)
		if metrics.CircuitBreakerState != nil {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		}
	})
	a.enabled.Store(enabled && repo != nil)
	return a
}

// SetEnabled 运行时开关自动落盘
func (a *Autosaver) SetEnabled(enabled bool) {
	a.enabled.Store(enabled && a.repo != nil)
}

// Enabled 当前是否开启
func (a *Autosaver) Enabled() bool {
	return a.enabled.Load()
}

// Trigger 在变更成功后调用,同步导出快照并落盘
// 快照导出在服务锁内完成深拷贝,落盘阶段不持有服务锁
func (a *Autosaver) Trigger(ctx context.Context) {
	if !a.enabled.Load() {
		return
	}

	snap := a.service.Snapshot(ctx)

	saveCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	err := a.breaker.Execute(func() error {
		return a.repo.Save(saveCtx, snap)
	})

	if metrics.CircuitBreakerRequests != nil {
		result := "success"
		switch {
		case errors.Is(err, circuitbreaker.ErrOpenState):
			result = "rejected"
		case err != nil:
			result = "failure"
		}
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
			"name":   "snapshot-autosave",
			"result": result,
		})
	}

	observeSnapshotSave("autosave", err)
	if err != nil {
		log.Printf("⚠️ 快照自动落盘失败(熔断器状态: %s): %v", a.breaker.State(), err)
	}
}

// observeSnapshotSave 记录快照落盘指标
func observeSnapshotSave(trigger string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	if metrics.SnapshotSavesTotal != nil {
		metrics.IncCounterVec(metrics.SnapshotSavesTotal, map[string]string{
			"trigger": trigger,
			"result":  result,
		})
	}
}
