package application

import (
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageApplied     Stage = "applied"
	StageScreening   Stage = "screening"
	StageShortlisted Stage = "shortlisted"
	StageSubmitted   Stage = "submitted"
	StageInterview   Stage = "interview"
	StageOffer       Stage = "offer"
	StagePlaced      Stage = "placed"
	// StageRejected is terminal and doubles as candidate withdrawal,
	// distinguished by the recorded reason.
	StageRejected Stage = "rejected"
)

const SourceQuickApply = "quick_apply"

var stageOrder = map[Stage]int{
	StageApplied:     0,
	StageScreening:   1,
	StageShortlisted: 2,
	StageSubmitted:   3,
	StageInterview:   4,
	StageOffer:       5,
	StagePlaced:      6,
}

func (s Stage) Valid() bool {
	if s == StageRejected {
		return true
	}
	_, ok := stageOrder[s]
	return ok
}

func (s Stage) Terminal() bool {
	return s == StagePlaced || s == StageRejected
}

// CanTransitionTo allows forward movement through the pipeline and a jump to
// rejected from any non-terminal stage. Records are never deleted; withdrawal
// is a transition to rejected with a reason.
func (s Stage) CanTransitionTo(next Stage) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next == StageRejected {
		return true
	}
	return stageOrder[next] > stageOrder[s]
}

type Record struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	JobID       uuid.UUID
	Stage       Stage
	Source      string

	AppliedAt   time.Time
	InterviewAt *time.Time
	PlacedAt    *time.Time

	Reason string
}
