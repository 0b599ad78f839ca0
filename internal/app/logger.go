package app

import (
	"strings"

	"go.uber.org/zap"

	"crew-match/internal/config"
	"crew-match/internal/pkg/logger"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	debug := !strings.EqualFold(cfg.App.Environment, "production")
	return logger.New(cfg.App.LogJSON, debug)
}
