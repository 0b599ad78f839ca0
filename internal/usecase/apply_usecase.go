package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crew-match/internal/domain/application"
	"crew-match/internal/domain/matching"
	"crew-match/internal/repository"
)

// ApplyOutcome names the gate decision. Every outcome except success maps
// to exactly one failed precondition, checked in a fixed order.
type ApplyOutcome string

const (
	OutcomeSuccess           ApplyOutcome = "success"
	OutcomeUnauthenticated   ApplyOutcome = "unauthenticated"
	OutcomeProfileIncomplete ApplyOutcome = "profile_incomplete"
	OutcomeCVRequired        ApplyOutcome = "cv_required"
	OutcomeJobNotAvailable   ApplyOutcome = "job_not_available"
	OutcomeAlreadyApplied    ApplyOutcome = "already_applied"
)

type ApplyResult struct {
	Outcome           ApplyOutcome       `json:"outcome"`
	Application       application.Record `json:"application,omitzero"`
	CompletenessScore int                `json:"completeness_score"`
	MissingFacets     []matching.Facet   `json:"missing_facets,omitempty"`
}

var ErrApplicationNotFound = errors.New("application not found")
var ErrInvalidStageTransition = errors.New("invalid stage transition")

type ApplyUsecase interface {
	Apply(ctx context.Context, candidateID, jobID uuid.UUID) (ApplyResult, error)
	Withdraw(ctx context.Context, candidateID, applicationID uuid.UUID) error
	AdvanceStage(ctx context.Context, applicationID uuid.UUID, next application.Stage, reason string) error
}

type Apply struct {
	candidates   repository.CandidateRepository
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	documents    repository.DocumentRepository
	outbox       repository.OutboxRepository
	log          *zap.Logger
}

func NewApplyUsecase(
	candidates repository.CandidateRepository,
	jobs repository.JobRepository,
	applications repository.ApplicationRepository,
	documents repository.DocumentRepository,
	outbox repository.OutboxRepository,
	log *zap.Logger,
) *Apply {
	if log == nil {
		log = zap.NewNop()
	}
	return &Apply{
		candidates:   candidates,
		jobs:         jobs,
		applications: applications,
		documents:    documents,
		outbox:       outbox,
		log:          log,
	}
}

// Apply runs the quick-apply preconditions in order and creates the
// application only when every one of them holds. The first failing
// precondition decides the outcome; later ones are not evaluated.
func (u *Apply) Apply(ctx context.Context, candidateID, jobID uuid.UUID) (ApplyResult, error) {
	if candidateID == uuid.Nil {
		return ApplyResult{Outcome: OutcomeUnauthenticated}, nil
	}

	p, err := u.candidates.GetProfileByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			// Authenticated but no profile row yet: nothing to evaluate,
			// so completeness is zero with the whole profile missing.
			return ApplyResult{
				Outcome:       OutcomeProfileIncomplete,
				MissingFacets: []matching.Facet{matching.FacetProfile},
			}, nil
		}
		return ApplyResult{}, ErrInternal
	}

	hasCV := p.HasCV
	if !hasCV && u.documents != nil {
		hasCV, err = u.documents.HasDocument(ctx, candidateID, repository.DocumentTypeCV)
		if err != nil {
			return ApplyResult{}, ErrInternal
		}
		p.HasCV = hasCV
	}

	completeness := matching.EvaluateCompleteness(p)
	if !completeness.QuickApplyEligible() {
		return ApplyResult{
			Outcome:           OutcomeProfileIncomplete,
			CompletenessScore: completeness.Score,
			MissingFacets:     completeness.MissingFacets,
		}, nil
	}

	if !hasCV {
		return ApplyResult{
			Outcome:           OutcomeCVRequired,
			CompletenessScore: completeness.Score,
		}, nil
	}

	req, err := u.jobs.GetRequirementByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ApplyResult{Outcome: OutcomeJobNotAvailable, CompletenessScore: completeness.Score}, nil
		}
		return ApplyResult{}, ErrInternal
	}
	if !req.Public || !req.Status.AcceptsApplications() {
		return ApplyResult{Outcome: OutcomeJobNotAvailable, CompletenessScore: completeness.Score}, nil
	}

	if existing, err := u.applications.FindActiveByCandidateAndJob(ctx, candidateID, jobID); err == nil {
		return ApplyResult{
			Outcome:           OutcomeAlreadyApplied,
			Application:       existing,
			CompletenessScore: completeness.Score,
		}, nil
	} else if !errors.Is(err, repository.ErrApplicationNotFound) {
		return ApplyResult{}, ErrInternal
	}

	rec := application.Record{
		ID:          uuid.New(),
		CandidateID: candidateID,
		JobID:       jobID,
		Stage:       application.StageApplied,
		Source:      application.SourceQuickApply,
		AppliedAt:   time.Now().UTC(),
	}
	if err := u.applications.Create(ctx, rec); err != nil {
		// Concurrent duplicate submits race past the lookup above; the
		// partial unique index is the arbiter.
		if errors.Is(err, repository.ErrDuplicateApplication) {
			res := ApplyResult{Outcome: OutcomeAlreadyApplied, CompletenessScore: completeness.Score}
			if existing, lookupErr := u.applications.FindActiveByCandidateAndJob(ctx, candidateID, jobID); lookupErr == nil {
				res.Application = existing
			}
			return res, nil
		}
		return ApplyResult{}, ErrInternal
	}

	u.appendOutboxEvent(ctx, rec)

	return ApplyResult{
		Outcome:           OutcomeSuccess,
		Application:       rec,
		CompletenessScore: completeness.Score,
	}, nil
}

func (u *Apply) appendOutboxEvent(ctx context.Context, rec application.Record) {
	if u.outbox == nil {
		return
	}
	payload := map[string]string{
		"application_id": rec.ID.String(),
		"candidate_id":   rec.CandidateID.String(),
		"job_id":         rec.JobID.String(),
		"source":         rec.Source,
		"applied_at":     rec.AppliedAt.Format(time.RFC3339),
	}
	if err := u.outbox.Append(ctx, repository.EventApplicationCreated, payload); err != nil {
		u.log.Warn("outbox append failed",
			zap.String("application_id", rec.ID.String()),
			zap.Error(err),
		)
	}
}

// Withdraw moves the candidate's own application to the terminal rejected
// stage with a withdrawal reason.
func (u *Apply) Withdraw(ctx context.Context, candidateID, applicationID uuid.UUID) error {
	rec, err := u.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}
	if rec.CandidateID != candidateID {
		return ErrApplicationNotFound
	}
	if !rec.Stage.CanTransitionTo(application.StageRejected) {
		return ErrInvalidStageTransition
	}
	if err := u.applications.UpdateStage(ctx, applicationID, application.StageRejected, "withdrawn by candidate"); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}
	return nil
}

// AdvanceStage is the recruiter-side transition; the stage machine only
// moves forward, plus rejection from any non-terminal stage.
func (u *Apply) AdvanceStage(ctx context.Context, applicationID uuid.UUID, next application.Stage, reason string) error {
	if !next.Valid() {
		return ErrInvalidStageTransition
	}

	rec, err := u.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}
	if !rec.Stage.CanTransitionTo(next) {
		return ErrInvalidStageTransition
	}

	if err := u.applications.UpdateStage(ctx, applicationID, next, reason); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}
	return nil
}
