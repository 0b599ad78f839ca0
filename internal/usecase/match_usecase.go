package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
	"crew-match/internal/domain/matching"
	"crew-match/internal/infrastructure/cache"
	"crew-match/internal/repository"
	"crew-match/internal/worker"
)

var ErrJobNotFound = errors.New("job not found")

// Assessor produces the AI sub-score input. Any error degrades that
// candidate's assessment to unavailable; it never fails the match run.
type Assessor interface {
	Assess(ctx context.Context, p candidate.Profile, j job.Requirement) (matching.Assessment, error)
}

// PreviewSource supplies external candidate previews for a position
// category. Failures degrade the run to internal-only results.
type PreviewSource interface {
	FetchPreviews(ctx context.Context, category candidate.PositionCategory, pages int) ([]matching.ExternalPreview, error)
}

type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type MatchUsecase interface {
	MatchesForJob(ctx context.Context, jobID uuid.UUID) ([]matching.Result, error)
	MatchForCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (matching.Result, bool, error)
}

type Match struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	assessor   Assessor
	source     PreviewSource
	cache      MatchCache
	log        *zap.Logger

	assessWorkers int
	sourcePages   int
	cacheTTL      time.Duration
}

func NewMatchUsecase(
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	assessor Assessor,
	source PreviewSource,
	matchCache MatchCache,
	log *zap.Logger,
) *Match {
	if log == nil {
		log = zap.NewNop()
	}
	return &Match{
		jobs:          jobs,
		candidates:    candidates,
		assessor:      assessor,
		source:        source,
		cache:         matchCache,
		log:           log,
		assessWorkers: 8,
		sourcePages:   1,
		cacheTTL:      10 * time.Minute,
	}
}

// MatchesForJob runs the full pipeline for one posting: hard filters over
// the active pool, AI assessment and weighted scoring for survivors, then
// aggregation with external previews. Results are cached per job.
func (u *Match) MatchesForJob(ctx context.Context, jobID uuid.UUID) ([]matching.Result, error) {
	if jobID == uuid.Nil {
		return nil, ErrJobNotFound
	}

	key := cache.MatchKey(jobID.String())
	if u.cache != nil {
		var cached []matching.Result
		if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	req, err := u.jobs.GetRequirementByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, ErrInternal
	}

	pool, err := u.eligiblePool(ctx, req)
	if err != nil {
		return nil, ErrInternal
	}

	internal := u.scorePool(ctx, pool, req)

	var previews []matching.ExternalPreview
	if u.source != nil {
		category := candidate.NormalizePositionCategory(req.Position)
		previews, err = u.source.FetchPreviews(ctx, category, u.sourcePages)
		if err != nil {
			u.log.Warn("external previews unavailable",
				zap.String("job_id", jobID.String()),
				zap.Error(err),
			)
			previews = nil
		}
	}

	results := matching.Aggregate(internal, previews)

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, results, u.cacheTTL)
	}

	return results, nil
}

// MatchForCandidate scores one candidate against one posting so they can
// see their own breakdown. The result is computed even when the hard
// filters exclude the candidate; eligible reports that separately.
func (u *Match) MatchForCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (matching.Result, bool, error) {
	if jobID == uuid.Nil {
		return matching.Result{}, false, ErrJobNotFound
	}
	if candidateID == uuid.Nil {
		return matching.Result{}, false, ErrProfileNotFound
	}

	req, err := u.jobs.GetRequirementByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return matching.Result{}, false, ErrJobNotFound
		}
		return matching.Result{}, false, ErrInternal
	}
	if !req.Public {
		return matching.Result{}, false, ErrJobNotFound
	}

	p, err := u.candidates.GetProfileByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return matching.Result{}, false, ErrProfileNotFound
		}
		return matching.Result{}, false, ErrInternal
	}

	eligible := matching.PassesHardFilters(p, matching.HardFiltersForJob(req))
	res := matching.Score(p, req, u.assess(ctx, p, req))
	return res, eligible, nil
}

// eligiblePool pages through active profiles and applies the hard filters.
// Exclusion is strict conjunction; excluded candidates never reach scoring.
func (u *Match) eligiblePool(ctx context.Context, req job.Requirement) ([]candidate.Profile, error) {
	filters := matching.HardFiltersForJob(req)

	const pageSize = 500
	out := make([]candidate.Profile, 0)
	for offset := 0; ; offset += pageSize {
		page, err := u.candidates.ListActiveProfiles(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if matching.PassesHardFilters(p, filters) {
				out = append(out, p)
			}
		}
		if len(page) < pageSize {
			break
		}
	}
	return out, nil
}

func (u *Match) scorePool(ctx context.Context, pool []candidate.Profile, req job.Requirement) []matching.Result {
	if len(pool) == 0 {
		return nil
	}

	results := make([]matching.Result, 0, len(pool))
	var mu sync.Mutex

	wp := worker.NewPool(u.assessWorkers, len(pool))
	done := wp.Run(ctx)

	for _, p := range pool {
		p := p
		wp.Submit(func(ctx context.Context) error {
			assessment := u.assess(ctx, p, req)
			res := matching.Score(p, req, assessment)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	wp.Close()

	for range done {
	}

	return results
}

func (u *Match) assess(ctx context.Context, p candidate.Profile, req job.Requirement) matching.Assessment {
	if u.assessor == nil {
		return matching.Assessment{Unavailable: true}
	}
	a, err := u.assessor.Assess(ctx, p, req)
	if err != nil {
		u.log.Warn("assessment degraded",
			zap.String("candidate_id", p.ID.String()),
			zap.String("job_id", req.ID.String()),
			zap.Error(err),
		)
		return matching.Assessment{Unavailable: true}
	}
	return a
}
