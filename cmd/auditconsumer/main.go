package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/config"
	"github.com/recyloop/gateway/internal/logger"
)

const groupID = "gateway-audit-consumer"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.Debug)
	defer func() {
		_ = log.Sync()
	}()

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        groupID,
		Topic:          cfg.AuditTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Error("error closing reader", zap.Error(err))
		}
	}()

	log.Info("audit consumer connected",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.AuditTopic),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, stopping consumer")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error("error reading message", zap.Error(err))
				time.Sleep(5 * time.Second)
				continue
			}

			log.Info("audit event",
				zap.Time("timestamp", m.Time),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.ByteString("key", m.Key),
				zap.ByteString("value", m.Value),
			)
		}
	}
}
