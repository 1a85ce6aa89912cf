package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiebiao/stockpile/internal/infrastructure/config"
	infmq "github.com/xiebiao/stockpile/internal/infrastructure/mq"
	"github.com/xiebiao/stockpile/internal/interface/http/dto"
	"github.com/xiebiao/stockpile/pkg/metrics"
	pkgmq "github.com/xiebiao/stockpile/pkg/mq"
)

// main 告警消费者入口
// 设计说明:
// 1. 订阅alert.*路由键,消费API进程发布的告警触发事件
// 2. 当前动作是结构化输出补货提醒;接邮件/企业微信等通道时只改handleAlert
// 3. 手动Ack:处理失败的消息重新入队,不丢告警
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatalf("MQ未启用(mq.enabled=false),告警消费者无事可做")
	}

	metrics.InitMetrics()

	consumer, err := pkgmq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.AlertQueue,
		[]string{"alert.*"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	// 优雅退出:Ctrl+C或SIGTERM时取消Context,Consume循环自行退出
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	log.Printf("🚀 alertd 启动成功, 队列: %s", cfg.MQ.AlertQueue)

	if err := consumer.Consume(ctx, handleAlert); err != nil {
		log.Fatalf("消费失败: %v", err)
	}
}

// handleAlert 处理单条告警触发事件
func handleAlert(body []byte) error {
	start := time.Now()
	defer func() {
		if metrics.MessageProcessingDuration != nil {
			metrics.ObserveHistogram(metrics.MessageProcessingDuration, time.Since(start).Seconds())
		}
	}()

	var event infmq.AlertTriggeredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// 解码失败的消息重新入队也无济于事,但保留Nack语义便于死信排查
		return fmt.Errorf("解码告警事件失败: %w", err)
	}

	if metrics.MessagesConsumedTotal != nil {
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
			"queue":  "alert",
			"result": "success",
		})
	}

	log.Printf("🔔 库存告警: 商品[%s]%s 数量=%d 价格=%s元 触发规则=%v",
		event.Code, event.Name, event.Quantity,
		dto.FormatPriceYuan(event.Price), event.RuleIDs)
	return nil
}
