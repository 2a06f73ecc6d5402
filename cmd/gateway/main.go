package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/recyloop/gateway/internal/cache"
	"github.com/recyloop/gateway/internal/config"
	"github.com/recyloop/gateway/internal/db"
	"github.com/recyloop/gateway/internal/inventory"
	"github.com/recyloop/gateway/internal/kafka"
	"github.com/recyloop/gateway/internal/logger"
	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/repository/postgresql"
	"github.com/recyloop/gateway/internal/server"
	"github.com/recyloop/gateway/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.Debug)
	defer func() {
		_ = log.Sync()
	}()

	database, err := db.NewDb(ctx, cfg)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer database.GetPool().Close()

	if err := db.InitSchema(ctx, database); err != nil {
		log.Fatal("schema init failed", zap.Error(err))
	}

	snapshotRepo := postgresql.NewSnapshotRepo(database)
	historyRepo := postgresql.NewHistoryRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	userRepo := postgresql.NewUserRepo(database)

	if cfg.AdminUser != "" && cfg.AdminPassword != "" {
		if err := userRepo.CreateUser(ctx, cfg.AdminUser, cfg.AdminPassword, "admin"); err != nil {
			log.Warn("admin bootstrap failed", zap.Error(err))
		}
	}

	mirror := storage.NewMirrorStorage(database, snapshotRepo, historyRepo, outboxRepo)

	snapshots := cache.NewSnapshotCache(snapshotRepo)
	if err := snapshots.LoadInitialData(ctx); err != nil {
		log.Warn("snapshot cache warm-up failed", zap.Error(err))
	}

	batchCache := cache.NewBatchCache()
	detailCache := cache.NewDetailCache()
	checker := inventory.NewChecker(batchCache, detailCache, log)

	backend := market.NewClient(cfg.BackendBaseURL, cfg.BackendToken)

	producer := kafka.NewConsoleProducer()
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewKafkaProducer(cfg.KafkaBrokers)
	} else {
		log.Warn("no kafka brokers configured, audit events go to the log")
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    20,
		MaxAttempts:  5,
	}, log)

	srv := server.New(mirror, backend, userRepo, checker, batchCache, detailCache, snapshots,
		server.Config{JWTSecret: cfg.JWTSecret, AuditTopic: cfg.AuditTopic}, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTPPort)
	})
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("gateway exited with error", zap.Error(err))
		return
	}
	log.Info("gateway stopped")
}
