// Package metrics 提供基于Prometheus的指标收集框架
//
// # 什么是Metrics（指标）？
//
// Metrics是可观测性三支柱之一（Tracing、Metrics、Logging）：
// - **Tracing（追踪）**: 回答"为什么慢？"
// - **Metrics（指标）**: 回答"有多少？多快？"（本模块）
// - **Logging（日志）**: 回答"发生了什么？"
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、变更操作总数、告警触发总数
//   - 特点：只能调用Inc()递增
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：在库商品种数、搜索词元数、goroutine数量
//   - 特点：可以调用Inc()、Dec()、Set()
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、变更操作耗时
//   - 特点：自动计算分位数（P50、P90、P99）
//
// # DO/DON'T对比
//
// ❌ DON'T: 手动记录日志统计（无法聚合、查询困难）
//
//	func EditItem() {
//	    start := time.Now()
//	    // ... 业务逻辑 ...
//	    duration := time.Since(start)
//	    log.Printf("编辑耗时: %v", duration) // ❌ 无法查询P99耗时
//	}
//
// ✅ DO: 使用Prometheus指标
//
//	func EditItem() {
//	    start := time.Now()
//
//	    // ... 业务逻辑 ...
//
//	    // 记录耗时（自动计算P50、P90、P99）
//	    metrics.ObserveHistogramVec(metrics.MutationDuration,
//	        map[string]string{"op": "edit"}, time.Since(start).Seconds())
//
//	    // 递增变更计数
//	    metrics.IncCounterVec(metrics.MutationsTotal,
//	        map[string]string{"op": "edit", "result": "success"})
//	}
//
// # 最佳实践
//
// 1. **使用标签（Label）区分不同维度**：op、result、status
// 2. **避免高基数标签**：
//   - ❌ 不要用商品编码作为标签（无上界）
//   - ✅ 用op、result作为标签（有限个值）
//
// 3. **选择合适的指标类型**：
//   - 计数用Counter：请求数、错误数、告警数
//   - 瞬时值用Gauge：商品种数、词元数
//   - 分布用Histogram：耗时
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/items）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 库存业务指标

	// MutationsTotal 库存变更操作总数（Counter）
	// 标签：op（add/edit/remove/restore）、result（success/failure）
	MutationsTotal *prometheus.CounterVec

	// MutationDuration 库存变更操作耗时（Histogram）
	// 标签：op（add/edit/remove/restore）
	MutationDuration *prometheus.HistogramVec

	// ItemsInStock 当前在库商品种数（Gauge）
	ItemsInStock prometheus.Gauge

	// SearchTokens 当前搜索词元数（Gauge）
	SearchTokens prometheus.Gauge

	// AlertsTriggeredTotal 告警触发总数（Counter）
	AlertsTriggeredTotal prometheus.Counter

	// SnapshotSavesTotal 快照落盘总数（Counter）
	// 标签：trigger（manual/autosave）、result（success/failure）
	SnapshotSavesTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时（Histogram）
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"}, // 标签：方法、路径、状态码
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			// 覆盖大部分HTTP请求耗时范围
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"}, // 标签：方法、路径
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 库存业务指标
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_mutations_total",
			Help: "库存变更操作总数",
		},
		[]string{"op", "result"}, // 标签：操作类型、结果
	)

	MutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "inventory_mutation_duration_seconds",
			Help: "库存变更操作耗时（秒）",
			// 纯内存变更很快，桶从0.1ms起
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1},
		},
		[]string{"op"}, // 标签：操作类型
	)

	ItemsInStock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_items_in_stock",
			Help: "当前在库商品种数",
		},
	)

	SearchTokens = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_search_tokens",
			Help: "当前搜索词元数",
		},
	)

	AlertsTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_alerts_triggered_total",
			Help: "告警触发总数",
		},
	)

	SnapshotSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_snapshot_saves_total",
			Help: "快照落盘总数",
		},
		[]string{"trigger", "result"}, // 标签：触发方式、结果
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"}, // 标签：熔断器名称
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // 标签：熔断器名称、结果（success/failure/rejected）
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"}, // 标签：交换机、路由键
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"}, // 标签：队列名称、结果（success/failure）
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
