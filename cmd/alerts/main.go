package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"crew-match/internal/app"
	"crew-match/internal/config"
	"crew-match/internal/pkg/logger"
)

func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	drainOutbox := flag.Bool("drain-outbox", true, "dispatch pending outbox events after the alert pass")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogJSON, false)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		_ = zlog.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init container", zap.Error(err))
	}
	defer func() {
		_ = c.Close()
	}()

	alerted, err := c.Alerts.ProcessJobAlerts(ctx)
	if err != nil {
		zlog.Fatal("alert pass failed", zap.Error(err))
	}
	zlog.Info("alert pass complete", zap.Int("jobs_alerted", alerted))

	// Alert events land in the outbox; without the server's worker
	// running, drain them here so notifications are not delayed.
	if *drainOutbox {
		dispatched, err := c.OutboxWorker.DrainOnce(ctx)
		if err != nil {
			zlog.Warn("outbox drain failed", zap.Error(err))
		}
		zlog.Info("outbox drained", zap.Int("dispatched", dispatched))
	}
}
