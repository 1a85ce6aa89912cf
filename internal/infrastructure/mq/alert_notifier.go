package mq

import (
	"context"
	"time"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/pkg/metrics"
	pkgmq "github.com/xiebiao/stockpile/pkg/mq"
)

// RoutingKeyAlertTriggered 告警触发事件的路由键
const RoutingKeyAlertTriggered = "alert.triggered"

// AlertTriggeredEvent 告警触发事件(JSON序列化后入队)
type AlertTriggeredEvent struct {
	Code       string    `json:"code"`     // 触发告警的商品编码
	Name       string    `json:"name"`     // 商品名称
	Quantity   int       `json:"quantity"` // 当前数量
	Price      int64     `json:"price"`    // 当前价格(分)
	RuleIDs    []string  `json:"rule_ids"` // 被触发的规则ID,编码规则在前
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier 告警通知器(RabbitMQ)
// 设计说明:
// 1. 实现domain/inventory/repository.go定义的AlertNotifier接口
// 2. 只做事件投递,补货决策由下游消费者(cmd/alertd)负责
type Notifier struct {
	publisher *pkgmq.Publisher
	exchange  string
}

// NewAlertNotifier 创建告警通知器
func NewAlertNotifier(url, exchange, exchangeType string) (*Notifier, error) {
	publisher, err := pkgmq.NewPublisher(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}
	return &Notifier{publisher: publisher, exchange: exchange}, nil
}

// NotifyTriggered 发布告警触发事件
func (n *Notifier) NotifyTriggered(_ context.Context, item *inventory.Item, ruleIDs []string) error {
	if len(ruleIDs) == 0 {
		return nil
	}

	event := AlertTriggeredEvent{
		Code:       item.Code,
		Name:       item.Name,
		Quantity:   item.Quantity,
		Price:      item.Price,
		RuleIDs:    ruleIDs,
		OccurredAt: time.Now(),
	}

	if err := n.publisher.Publish(RoutingKeyAlertTriggered, event); err != nil {
		return err
	}

	// 指标未初始化时跳过(InitMetrics在进程入口调用)
	if metrics.MessagesPublishedTotal != nil {
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
			"exchange":    n.exchange,
			"routing_key": RoutingKeyAlertTriggered,
		})
	}
	return nil
}

// Close 关闭底层连接
func (n *Notifier) Close() error {
	return n.publisher.Close()
}
