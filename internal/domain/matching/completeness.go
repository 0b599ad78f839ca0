package matching

import (
	"strings"

	"crew-match/internal/domain/candidate"
)

type Facet string

const (
	FacetIdentity       Facet = "identity"
	FacetContact        Facet = "contact"
	FacetPosition       Facet = "position"
	FacetExperience     Facet = "experience"
	FacetCertifications Facet = "certifications"
	FacetAvailability   Facet = "availability"
	FacetSalary         Facet = "salary"
	FacetCV             Facet = "cv"

	// FacetProfile marks an account with no profile row at all. It never
	// appears in a completeness evaluation; the application gate reports
	// it when there is nothing to evaluate.
	FacetProfile Facet = "profile"
)

// QuickApplyThreshold is the completeness score required before a candidate
// may quick-apply to a posting.
const QuickApplyThreshold = 70

type facetCheck struct {
	facet    Facet
	weight   int
	complete func(candidate.Profile) bool
}

// facetChecks is the canonical ordered facet list. MissingFacets always comes
// back in this order so callers get a stable "what to fix next" list.
// Weights sum to exactly 100.
var facetChecks = []facetCheck{
	{FacetIdentity, 15, func(p candidate.Profile) bool {
		return nonEmpty(p.FirstName) && nonEmpty(p.LastName)
	}},
	{FacetContact, 10, func(p candidate.Profile) bool {
		return nonEmpty(p.Email) && nonEmpty(p.Phone)
	}},
	{FacetPosition, 15, func(p candidate.Profile) bool {
		return nonEmpty(p.PrimaryPosition)
	}},
	{FacetExperience, 10, func(p candidate.Profile) bool {
		return p.YearsExperience > 0
	}},
	{FacetCertifications, 15, func(p candidate.Profile) bool {
		return p.HasSTCW || p.HasENG1 || len(p.Visas) > 0
	}},
	{FacetAvailability, 10, func(p candidate.Profile) bool {
		return p.Availability != ""
	}},
	{FacetSalary, 5, func(p candidate.Profile) bool {
		return p.DesiredSalaryMin > 0 && nonEmpty(p.SalaryCurrency)
	}},
	{FacetCV, 20, func(p candidate.Profile) bool {
		return p.HasCV
	}},
}

type Completeness struct {
	Score         int
	MissingFacets []Facet
}

// AllFacets returns the canonical facet order.
func AllFacets() []Facet {
	out := make([]Facet, 0, len(facetChecks))
	for _, fc := range facetChecks {
		out = append(out, fc.facet)
	}
	return out
}

// EvaluateCompleteness scores a profile snapshot 0-100. It is pure and never
// fails: an entirely empty profile scores 0 with every facet missing.
func EvaluateCompleteness(p candidate.Profile) Completeness {
	score := 0
	missing := make([]Facet, 0)

	for _, fc := range facetChecks {
		if fc.complete(p) {
			score += fc.weight
			continue
		}
		missing = append(missing, fc.facet)
	}

	return Completeness{Score: score, MissingFacets: missing}
}

// QuickApplyEligible reports whether the profile meets the completeness bar.
func (c Completeness) QuickApplyEligible() bool {
	return c.Score >= QuickApplyThreshold
}

func nonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
