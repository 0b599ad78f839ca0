package app

import (
	"context"
	"fmt"
	"strings"

	"crew-match/internal/config"
	"crew-match/internal/delivery/http/middleware"
	"crew-match/internal/delivery/http/routes"
	v1 "crew-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap wires the full server: container, fiber app, middleware,
// routes and background loops. The returned cleanup stops the loops
// and closes connections.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	f.Use(middleware.NewErrorMiddleware(log).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(log).Middleware())

	registry := routes.NewRegistry(c.DB, v1.Deps{
		JWT:     c.JWT,
		Auth:    c.Auth,
		Profile: c.Profile,
		Match:   c.Match,
		Apply:   c.Apply,
	}, c.WSHandler)
	registry.Register(f)

	go c.Hub.Run()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go c.OutboxWorker.Run(workerCtx)

	cleanup := func() error {
		stopWorker()
		err := c.Close()
		_ = log.Sync()
		return err
	}

	return &App{Fiber: f, Container: c}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
