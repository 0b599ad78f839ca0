package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crew-match/internal/domain/matching"
	"crew-match/internal/repository"
)

// AlertLocker is the SETNX lock used so a posting is processed by at most
// one batch node per window.
type AlertLocker interface {
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
}

type JobAlertUsecase interface {
	ProcessJobAlerts(ctx context.Context) (int, error)
}

type JobAlert struct {
	jobs    repository.JobRepository
	matcher MatchUsecase
	outbox  repository.OutboxRepository
	locker  AlertLocker
	log     *zap.Logger

	minScore int
	lockTTL  time.Duration
	maxJobs  int
	owner    string
}

func NewJobAlertUsecase(
	jobs repository.JobRepository,
	matcher MatchUsecase,
	outbox repository.OutboxRepository,
	locker AlertLocker,
	minScore int,
	lockTTL time.Duration,
	log *zap.Logger,
) *JobAlert {
	if log == nil {
		log = zap.NewNop()
	}
	if minScore <= 0 {
		minScore = 60
	}
	if lockTTL <= 0 {
		lockTTL = 12 * time.Hour
	}
	return &JobAlert{
		jobs:     jobs,
		matcher:  matcher,
		outbox:   outbox,
		locker:   locker,
		log:      log,
		minScore: minScore,
		lockTTL:  lockTTL,
		maxJobs:  200,
		owner:    uuid.NewString(),
	}
}

// ProcessJobAlerts walks alert-enabled open postings and records a
// job_alert outbox event for every posting with internal matches at or
// above the threshold. Returns the number of postings alerted.
func (u *JobAlert) ProcessJobAlerts(ctx context.Context) (int, error) {
	postings, err := u.jobs.ListOpenWithAlerts(ctx, u.maxJobs)
	if err != nil {
		return 0, ErrInternal
	}

	alerted := 0
	for _, req := range postings {
		if ctx.Err() != nil {
			return alerted, ctx.Err()
		}

		if u.locker != nil {
			ok, err := u.locker.AcquireLock(ctx, alertLockKey(req.ID), u.owner, u.lockTTL)
			if err != nil || !ok {
				continue
			}
		}

		results, err := u.matcher.MatchesForJob(ctx, req.ID)
		if err != nil {
			u.log.Warn("alert match run failed",
				zap.String("job_id", req.ID.String()),
				zap.Error(err),
			)
			continue
		}

		matches, topScore := countQualifying(results, u.minScore)
		if matches == 0 {
			continue
		}

		payload := map[string]any{
			"job_id":    req.ID.String(),
			"job_title": req.Title,
			"matches":   matches,
			"top_score": topScore,
		}
		if err := u.outbox.Append(ctx, repository.EventJobAlert, payload); err != nil {
			u.log.Warn("alert outbox append failed",
				zap.String("job_id", req.ID.String()),
				zap.Error(err),
			)
			continue
		}
		alerted++
	}

	return alerted, nil
}

// countQualifying only counts internal results; external previews carry
// scraped scores that are not comparable against the threshold.
func countQualifying(results []matching.Result, minScore int) (int, int) {
	matches := 0
	top := 0
	for _, r := range results {
		if r.Provenance != matching.ProvenanceInternal {
			continue
		}
		if r.OverallScore < minScore {
			continue
		}
		matches++
		if r.OverallScore > top {
			top = r.OverallScore
		}
	}
	return matches, top
}

func alertLockKey(jobID uuid.UUID) string {
	return "alerts:job:" + jobID.String()
}
