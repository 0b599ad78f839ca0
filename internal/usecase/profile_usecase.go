package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"crew-match/internal/domain/matching"
	"crew-match/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// CompletenessReport is the readiness view a candidate sees on their
// dashboard before quick-applying.
type CompletenessReport struct {
	CandidateID   uuid.UUID        `json:"candidate_id"`
	Score         int              `json:"score"`
	MissingFacets []matching.Facet `json:"missing_facets"`
	QuickApply    bool             `json:"quick_apply_eligible"`
	HasCV         bool             `json:"has_cv"`
}

type ProfileUsecase interface {
	Completeness(ctx context.Context, candidateID uuid.UUID) (CompletenessReport, error)
}

type Profile struct {
	candidates repository.CandidateRepository
	documents  repository.DocumentRepository
}

func NewProfileUsecase(candidates repository.CandidateRepository, documents repository.DocumentRepository) *Profile {
	return &Profile{candidates: candidates, documents: documents}
}

func (u *Profile) Completeness(ctx context.Context, candidateID uuid.UUID) (CompletenessReport, error) {
	if candidateID == uuid.Nil {
		return CompletenessReport{}, ErrProfileNotFound
	}

	p, err := u.candidates.GetProfileByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return CompletenessReport{}, ErrProfileNotFound
		}
		return CompletenessReport{}, ErrInternal
	}

	hasCV := p.HasCV
	if !hasCV && u.documents != nil {
		hasCV, err = u.documents.HasDocument(ctx, candidateID, repository.DocumentTypeCV)
		if err != nil {
			return CompletenessReport{}, ErrInternal
		}
	}
	p.HasCV = hasCV

	c := matching.EvaluateCompleteness(p)
	return CompletenessReport{
		CandidateID:   candidateID,
		Score:         c.Score,
		MissingFacets: c.MissingFacets,
		QuickApply:    c.QuickApplyEligible(),
		HasCV:         hasCV,
	}, nil
}
