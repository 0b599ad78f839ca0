package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crew-match/internal/infrastructure/vincere"
	"crew-match/internal/repository"
)

const (
	defaultBatchSize    = 50
	defaultMaxAttempts  = 5
	defaultPollInterval = 15 * time.Second
)

// ATSSyncer pushes a created application to the ATS.
type ATSSyncer interface {
	SyncApplication(ctx context.Context, sync vincere.ApplicationSync) error
}

// AlertNotifier fans a job alert out to connected clients.
type AlertNotifier func(jobID, jobTitle string, matches, topScore int)

// Worker drains pending outbox events. Dispatch is at-least-once: an event
// is retried until it succeeds or exhausts its attempts.
type Worker struct {
	outbox   repository.OutboxRepository
	ats      ATSSyncer
	notify   AlertNotifier
	log      *zap.Logger
	interval time.Duration
}

func NewWorker(outboxRepo repository.OutboxRepository, ats ATSSyncer, notify AlertNotifier, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		outbox:   outboxRepo,
		ats:      ats,
		notify:   notify,
		log:      log,
		interval: defaultPollInterval,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.DrainOnce(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn("outbox drain failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// DrainOnce dispatches one batch of pending events and returns how many
// succeeded.
func (w *Worker) DrainOnce(ctx context.Context) (int, error) {
	events, err := w.outbox.ListPending(ctx, defaultBatchSize, defaultMaxAttempts)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return dispatched, ctx.Err()
		}

		if err := w.dispatch(ctx, ev); err != nil {
			w.log.Warn("outbox dispatch failed",
				zap.String("event_id", ev.ID.String()),
				zap.String("event_type", ev.EventType),
				zap.Int("attempts", ev.Attempts+1),
				zap.Error(err),
			)
			_ = w.outbox.MarkFailed(ctx, ev.ID, err.Error())
			continue
		}

		if err := w.outbox.MarkDispatched(ctx, ev.ID); err != nil {
			w.log.Warn("outbox mark dispatched failed",
				zap.String("event_id", ev.ID.String()),
				zap.Error(err),
			)
			continue
		}
		dispatched++
	}

	return dispatched, nil
}

func (w *Worker) dispatch(ctx context.Context, ev repository.OutboxEvent) error {
	switch ev.EventType {
	case repository.EventApplicationCreated:
		return w.dispatchApplicationCreated(ctx, ev)
	case repository.EventJobAlert:
		return w.dispatchJobAlert(ev)
	default:
		return fmt.Errorf("unknown event type: %s", ev.EventType)
	}
}

func (w *Worker) dispatchApplicationCreated(ctx context.Context, ev repository.OutboxEvent) error {
	if w.ats == nil {
		return nil
	}
	var sync vincere.ApplicationSync
	if err := json.Unmarshal(ev.Payload, &sync); err != nil {
		return fmt.Errorf("decode application_created payload: %w", err)
	}
	return w.ats.SyncApplication(ctx, sync)
}

type jobAlertPayload struct {
	JobID    string `json:"job_id"`
	JobTitle string `json:"job_title"`
	Matches  int    `json:"matches"`
	TopScore int    `json:"top_score"`
}

func (w *Worker) dispatchJobAlert(ev repository.OutboxEvent) error {
	if w.notify == nil {
		return nil
	}
	var p jobAlertPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return fmt.Errorf("decode job_alert payload: %w", err)
	}
	w.notify(p.JobID, p.JobTitle, p.Matches, p.TopScore)
	return nil
}
