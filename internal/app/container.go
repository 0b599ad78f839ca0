package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"crew-match/internal/config"
	"crew-match/internal/database"
	"crew-match/internal/database/migration"
	dbpostgres "crew-match/internal/database/postgres"
	"crew-match/internal/domain/account"
	"crew-match/internal/infrastructure/ai"
	"crew-match/internal/infrastructure/cache"
	"crew-match/internal/infrastructure/vincere"
	"crew-match/internal/outbox"
	"crew-match/internal/pkg/jwt"
	"crew-match/internal/repository"
	"crew-match/internal/source"
	"crew-match/internal/usecase"
	"crew-match/internal/ws"
)

// Container owns every shared dependency. The HTTP server and the batch
// commands both build their wiring from one of these.
type Container struct {
	Config config.Config
	Log    *zap.Logger

	DB    database.DB
	Cache *cache.Redis

	Accounts     account.Repository
	Candidates   repository.CandidateRepository
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository
	Documents    repository.DocumentRepository
	Outbox       repository.OutboxRepository

	JWT jwt.Service

	Auth    usecase.AuthUsecase
	Profile usecase.ProfileUsecase
	Match   usecase.MatchUsecase
	Apply   usecase.ApplyUsecase
	Alerts  *usecase.JobAlert

	Hub          *ws.Hub
	WSHandler    *ws.Handler
	OutboxWorker *outbox.Worker
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := migration.Apply(ctx, db.SQLDB(), ""); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	redisCache := cache.NewRedis(log)

	accounts := repository.NewPostgresAccountRepository(db)
	candidates := repository.NewPostgresCandidateRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	applications := repository.NewPostgresApplicationRepository(db)
	documents := repository.NewPostgresDocumentRepository(db)
	outboxRepo := repository.NewPostgresOutboxRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	var assessor usecase.Assessor
	if strings.TrimSpace(cfg.AI.GeminiAPIKey) != "" {
		gemini, err := ai.NewGemini(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout)
		if err != nil {
			log.Warn("gemini assessor disabled", zap.Error(err))
		} else {
			assessor = gemini
		}
	} else {
		log.Info("gemini assessor not configured, fit assessments disabled")
	}

	var previews usecase.PreviewSource
	if strings.TrimSpace(cfg.Source.BaseURL) != "" {
		previews = source.NewCrewBoard(cfg.Source)
	}

	var ats outbox.ATSSyncer
	if strings.TrimSpace(cfg.Vincere.RefreshToken) != "" {
		client, err := vincere.NewClient(cfg.Vincere)
		if err != nil {
			log.Warn("vincere sync disabled", zap.Error(err))
		} else {
			ats = client
		}
	} else {
		log.Info("vincere not configured, ats sync disabled")
	}

	matchUC := usecase.NewMatchUsecase(jobs, candidates, assessor, previews, redisCache, log)

	hub := ws.NewHub(log)
	ws.SetDefaultHub(hub)

	c := &Container{
		Config: cfg,
		Log:    log,

		DB:    db,
		Cache: redisCache,

		Accounts:     accounts,
		Candidates:   candidates,
		Jobs:         jobs,
		Applications: applications,
		Documents:    documents,
		Outbox:       outboxRepo,

		JWT: jwtSvc,

		Auth:    usecase.NewAuthUsecase(accounts, jwtSvc),
		Profile: usecase.NewProfileUsecase(candidates, documents),
		Match:   matchUC,
		Apply:   usecase.NewApplyUsecase(candidates, jobs, applications, documents, outboxRepo, log),
		Alerts:  usecase.NewJobAlertUsecase(jobs, matchUC, outboxRepo, redisCache, cfg.Alerts.MinScore, cfg.Alerts.LockTTL, log),

		Hub:          hub,
		WSHandler:    ws.NewHandler(hub, log),
		OutboxWorker: outbox.NewWorker(outboxRepo, ats, ws.NotifyJobAlert, log),
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
