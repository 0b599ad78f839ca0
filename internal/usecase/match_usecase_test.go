package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
	"crew-match/internal/domain/matching"
)

type mockAssessor struct {
	score float64
	err   error
	calls int
}

func (m *mockAssessor) Assess(context.Context, candidate.Profile, job.Requirement) (matching.Assessment, error) {
	m.calls++
	if m.err != nil {
		return matching.Assessment{}, m.err
	}
	return matching.Assessment{Score: m.score}, nil
}

type mockSource struct {
	previews []matching.ExternalPreview
	err      error
}

func (m mockSource) FetchPreviews(context.Context, candidate.PositionCategory, int) ([]matching.ExternalPreview, error) {
	return m.previews, m.err
}

type mockCache struct {
	store map[string][]byte
	sets  int
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.store == nil {
		m.store = map[string][]byte{}
	}
	m.store[key] = b
	m.sets++
	return nil
}

func TestMatchesForJob_HardFilterExcludesBeforeScoring(t *testing.T) {
	jobID := uuid.New()
	req := openJob(jobID)
	req.RequireSTCW = true

	qualified := eligibleProfile(uuid.New())
	unqualified := eligibleProfile(uuid.New())
	unqualified.HasSTCW = false
	unqualified.STCWExpiry = nil

	assessor := &mockAssessor{score: 5}
	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{list: []candidate.Profile{qualified, unqualified}},
		assessor,
		nil,
		nil,
		nil,
	)

	results, err := uc.MatchesForJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].CandidateID != qualified.ID {
		t.Fatalf("wrong candidate scored: %s", results[0].CandidateID)
	}
	if assessor.calls != 1 {
		t.Fatalf("assessor calls = %d, want 1 (excluded candidate must not be assessed)", assessor.calls)
	}
}

func TestMatchesForJob_AssessorFailureDegrades(t *testing.T) {
	jobID := uuid.New()
	req := openJob(jobID)
	req.RequireSTCW = true
	minYears := 3
	req.MinYearsExperience = &minYears

	p := eligibleProfile(uuid.New())

	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{list: []candidate.Profile{p}},
		&mockAssessor{err: context.DeadlineExceeded},
		nil,
		nil,
		nil,
	)

	results, err := uc.MatchesForJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if !r.AssessmentUnavailable {
		t.Fatal("expected assessment_unavailable flag")
	}
	if r.Breakdown == nil || r.Breakdown.Assessment != 0 {
		t.Fatalf("assessment sub-score = %v, want 0", r.Breakdown)
	}
	// The remaining sub-scores still count.
	if r.Breakdown.Qualifications == 0 || r.Breakdown.Experience == 0 {
		t.Fatalf("non-assessment sub-scores should survive degradation: %+v", *r.Breakdown)
	}
}

func TestMatchesForJob_AggregatesExternalPreviews(t *testing.T) {
	jobID := uuid.New()
	req := openJob(jobID)

	p := eligibleProfile(uuid.New())

	high := 99
	previews := []matching.ExternalPreview{
		{ExternalID: "cb-1", Name: "External Star", MatchScore: &high},
		{Name: "no identity"},
	}

	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{list: []candidate.Profile{p}},
		&mockAssessor{score: 5},
		mockSource{previews: previews},
		nil,
		nil,
	)

	results, err := uc.MatchesForJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (identity-less preview dropped)", len(results))
	}
	if results[0].Provenance != matching.ProvenanceExternal || results[0].OverallScore != 99 {
		t.Fatalf("expected external preview first, got %+v", results[0])
	}
	for i := 1; i < len(results); i++ {
		if results[i].OverallScore > results[i-1].OverallScore {
			t.Fatal("results not sorted by score desc")
		}
	}
}

func TestMatchesForJob_SourceFailureFallsBackToInternal(t *testing.T) {
	jobID := uuid.New()
	req := openJob(jobID)
	p := eligibleProfile(uuid.New())

	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{list: []candidate.Profile{p}},
		&mockAssessor{score: 5},
		mockSource{err: errors.New("board unreachable")},
		nil,
		nil,
	)

	results, err := uc.MatchesForJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 internal result", len(results))
	}
	if results[0].Provenance != matching.ProvenanceInternal {
		t.Fatalf("provenance = %s", results[0].Provenance)
	}
}

func TestMatchesForJob_JobNotFound(t *testing.T) {
	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{}},
		mockCandidateRepo{},
		nil, nil, nil, nil,
	)
	if _, err := uc.MatchesForJob(context.Background(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMatchesForJob_CachesResults(t *testing.T) {
	jobID := uuid.New()
	req := openJob(jobID)
	p := eligibleProfile(uuid.New())

	assessor := &mockAssessor{score: 5}
	c := &mockCache{}
	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{list: []candidate.Profile{p}},
		assessor,
		nil,
		c,
		nil,
	)

	if _, err := uc.MatchesForJob(context.Background(), jobID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", c.sets)
	}

	results, err := uc.MatchesForJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if assessor.calls != 1 {
		t.Fatalf("assessor calls = %d, want 1 (second read served from cache)", assessor.calls)
	}
	if len(results) != 1 || results[0].CandidateID != p.ID {
		t.Fatalf("cached results = %+v", results)
	}
}

func TestMatchForCandidate_ScoresOwnBreakdown(t *testing.T) {
	jobID := uuid.New()
	candID := uuid.New()
	p := eligibleProfile(candID)

	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: openJob(jobID)}},
		mockCandidateRepo{profiles: map[uuid.UUID]candidate.Profile{candID: p}},
		&mockAssessor{score: 7},
		nil,
		nil,
		nil,
	)

	res, eligible, err := uc.MatchForCandidate(context.Background(), jobID, candID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !eligible {
		t.Fatalf("expected candidate to pass hard filters")
	}
	if res.CandidateID != candID {
		t.Fatalf("wrong candidate in result: %s", res.CandidateID)
	}
	if res.Breakdown == nil || res.OverallScore <= 0 {
		t.Fatalf("expected scored breakdown, got %+v", res)
	}
}

func TestMatchForCandidate_IneligibleStillScored(t *testing.T) {
	jobID := uuid.New()
	candID := uuid.New()
	req := openJob(jobID)
	req.RequireSTCW = true

	p := eligibleProfile(candID)
	p.HasSTCW = false
	p.STCWExpiry = nil

	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{profiles: map[uuid.UUID]candidate.Profile{candID: p}},
		&mockAssessor{score: 7},
		nil,
		nil,
		nil,
	)

	res, eligible, err := uc.MatchForCandidate(context.Background(), jobID, candID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if eligible {
		t.Fatalf("expected hard filter failure")
	}
	if res.Breakdown == nil {
		t.Fatalf("breakdown should still be computed for the candidate's own view")
	}
}

func TestMatchForCandidate_HiddenJob(t *testing.T) {
	jobID := uuid.New()
	candID := uuid.New()
	req := openJob(jobID)
	req.Public = false

	uc := NewMatchUsecase(
		mockJobRepo{reqs: map[uuid.UUID]job.Requirement{jobID: req}},
		mockCandidateRepo{profiles: map[uuid.UUID]candidate.Profile{candID: eligibleProfile(candID)}},
		&mockAssessor{score: 7},
		nil,
		nil,
		nil,
	)

	if _, _, err := uc.MatchForCandidate(context.Background(), jobID, candID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound for non-public job, got %v", err)
	}
}
