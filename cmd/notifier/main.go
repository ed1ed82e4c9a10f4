// notifier 消费订单与账号事件，发送邮件通知
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/infrastructure/config"
	"github.com/xiebiao/bookmall/internal/infrastructure/logger"
	"github.com/xiebiao/bookmall/internal/infrastructure/notification"
	"github.com/xiebiao/bookmall/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog = zlog.Named("notifier")

	if !cfg.MQ.Enabled {
		zlog.Fatal("未启用消息队列(mq.enabled=false)，通知服务无事可做")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, "topic", cfg.MQ.Queue, notification.RoutingKeys(), zlog)
	if err != nil {
		zlog.Fatal("创建消费者失败", zap.Error(err))
	}
	defer func() { _ = consumer.Close() }()

	// TODO: 接入SMTP或邮件服务商后替换LogMailer
	notifier := notification.NewNotifier(notification.NewLogMailer(zlog), zlog)
	if err := consumer.Consume(ctx, notifier.Handle); err != nil {
		zlog.Error("消费中断", zap.Error(err))
	}
}
