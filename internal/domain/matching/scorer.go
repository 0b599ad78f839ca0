package matching

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
)

// Sub-score ceilings. They sum to 100, so the overall score is the rounded
// sum of the breakdown with no further normalization.
const (
	MaxQualifications = 25.0
	MaxExperience     = 25.0
	MaxAvailability   = 15.0
	MaxPreferences    = 15.0
	MaxVerification   = 10.0
	MaxAssessment     = 10.0
)

// experienceSurplusYears is the comfortable surplus above a posting's minimum
// at which the experience sub-score reaches full marks.
const experienceSurplusYears = 3

// availabilityGraceDays scales partial credit for candidates free shortly
// after the desired start date; beyond it the sub-score bottoms out at zero.
const availabilityGraceDays = 90

type Provenance string

const (
	ProvenanceInternal Provenance = "internal"
	ProvenanceExternal Provenance = "external"
)

// Assessment is the opaque AI input: a 0-10 score plus free-text notes. The
// engine never computes it itself. Unavailable marks a degraded result where
// the provider could not answer in time.
type Assessment struct {
	Score       float64
	Strengths   []string
	Concerns    []string
	Unavailable bool
}

type Breakdown struct {
	Qualifications float64 `json:"qualifications"`
	Experience     float64 `json:"experience"`
	Availability   float64 `json:"availability"`
	Preferences    float64 `json:"preferences"`
	Verification   float64 `json:"verification"`
	Assessment     float64 `json:"assessment"`
}

func (b Breakdown) Sum() float64 {
	return b.Qualifications + b.Experience + b.Availability + b.Preferences + b.Verification + b.Assessment
}

// Result is the ephemeral outcome of scoring one candidate against one job.
// External previews carry a nil Breakdown.
type Result struct {
	CandidateID   uuid.UUID
	CandidateKey  string
	CandidateName string

	OverallScore int
	Breakdown    *Breakdown

	Strengths []string
	Concerns  []string
	RedFlags  []string

	Provenance            Provenance
	AssessmentUnavailable bool

	SourceURL string
	Summary   string
}

// Score computes the six weighted sub-scores for a candidate that already
// passed the hard filters. A sub-dimension with no declared input scores
// zero rather than being omitted, so the breakdown always sums to the
// overall score.
func Score(p candidate.Profile, j job.Requirement, a Assessment) Result {
	return ScoreAt(p, j, a, time.Now().UTC())
}

func ScoreAt(p candidate.Profile, j job.Requirement, a Assessment, now time.Time) Result {
	bd := Breakdown{
		Qualifications: qualificationsScore(p, j, now),
		Experience:     experienceScore(p, j),
		Availability:   availabilityScore(p, j),
		Preferences:    preferencesScore(p, j),
		Verification:   verificationScore(p.Verification),
		Assessment:     assessmentScore(a),
	}

	concerns, redFlags := ClassifyConcerns(a.Concerns)

	return Result{
		CandidateID:           p.ID,
		CandidateKey:          p.ID.String(),
		CandidateName:         p.FullName(),
		OverallScore:          int(math.Round(bd.Sum())),
		Breakdown:             &bd,
		Strengths:             a.Strengths,
		Concerns:              concerns,
		RedFlags:              redFlags,
		Provenance:            ProvenanceInternal,
		AssessmentUnavailable: a.Unavailable,
	}
}

// qualificationsScore is the proportion of required certificates and visas
// the candidate holds. A posting with no such requirements scores zero here.
func qualificationsScore(p candidate.Profile, j job.Requirement, now time.Time) float64 {
	required := 0
	held := 0

	if j.RequireSTCW {
		required++
		if candidate.CertValidAt(p.HasSTCW, p.STCWExpiry, now) {
			held++
		}
	}
	if j.RequireENG1 {
		required++
		if candidate.CertValidAt(p.HasENG1, p.ENG1Expiry, now) {
			held++
		}
	}
	for _, visa := range j.RequiredVisas {
		required++
		if p.HasVisa(visa) {
			held++
		}
	}

	if required == 0 {
		return 0
	}
	return MaxQualifications * float64(held) / float64(required)
}

// experienceScore interpolates linearly from the posting's minimum up to the
// comfortable-surplus point. Below the minimum it is zero; hard filtering
// already excludes those candidates when experience is mandatory, but the
// sub-score still differentiates soft preference above the bar.
func experienceScore(p candidate.Profile, j job.Requirement) float64 {
	if j.MinYearsExperience == nil {
		return 0
	}
	minYears := *j.MinYearsExperience
	if minYears < 0 {
		minYears = 0
	}
	if p.YearsExperience < minYears {
		return 0
	}
	surplus := float64(p.YearsExperience - minYears)
	ratio := surplus / experienceSurplusYears
	if ratio > 1 {
		ratio = 1
	}
	return MaxExperience * ratio
}

func availabilityScore(p candidate.Profile, j job.Requirement) float64 {
	if p.Availability == candidate.NotLooking {
		return 0
	}
	if p.Availability == candidate.AvailableNow {
		return MaxAvailability
	}

	if j.StartBy == nil {
		// No reference date: grade by status alone.
		switch p.Availability {
		case candidate.ActivelyLooking:
			return MaxAvailability * 2 / 3
		case candidate.EmployedNotice:
			return MaxAvailability / 3
		default:
			return 0
		}
	}

	if p.AvailableFrom == nil {
		// Declared looking but no date against a dated posting: half credit.
		return MaxAvailability / 2
	}
	if !p.AvailableFrom.After(*j.StartBy) {
		return MaxAvailability
	}

	daysLate := p.AvailableFrom.Sub(*j.StartBy).Hours() / 24
	ratio := 1 - daysLate/availabilityGraceDays
	if ratio < 0 {
		ratio = 0
	}
	return MaxAvailability * ratio
}

// preferencesScore is proportional to the fraction of the candidate's
// declared preference groups the posting matches. Undeclared groups do not
// count against the candidate; no declared preferences at all scores zero.
func preferencesScore(p candidate.Profile, j job.Requirement) float64 {
	declared := 0
	matched := 0

	if len(p.PreferredPositions) > 0 {
		declared++
		if containsFold(p.PreferredPositions, j.Position) {
			matched++
		}
	}
	if len(p.PreferredLocations) > 0 {
		declared++
		if containsFold(p.PreferredLocations, j.Location) {
			matched++
		}
	}
	if len(p.PreferredContractTypes) > 0 {
		declared++
		if containsFold(p.PreferredContractTypes, j.ContractType) {
			matched++
		}
	}

	if declared == 0 {
		return 0
	}
	return MaxPreferences * float64(matched) / float64(declared)
}

func verificationScore(tier candidate.VerificationTier) float64 {
	switch tier {
	case candidate.TierPremium:
		return MaxVerification
	case candidate.TierVerified:
		return 8
	case candidate.TierIdentity:
		return 5
	default:
		return 2
	}
}

func assessmentScore(a Assessment) float64 {
	if a.Unavailable {
		return 0
	}
	s := a.Score
	if s < 0 {
		return 0
	}
	if s > MaxAssessment {
		return MaxAssessment
	}
	return s
}

func containsFold(haystack []string, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	for _, h := range haystack {
		if strings.EqualFold(strings.TrimSpace(h), needle) {
			return true
		}
	}
	return false
}
