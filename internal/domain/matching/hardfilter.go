package matching

import (
	"time"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
)

// HardFilterSet enumerates a posting's non-negotiable requirements. A zero
// value field means "no constraint"; absence of filter input never auto-fails
// a candidate.
type HardFilterSet struct {
	RequireSTCW        bool
	RequireENG1        bool
	RequiredVisas      []candidate.VisaKind
	MinExperienceYears *int
	AvailableBy        *time.Time
}

// HardFiltersForJob extracts the mandatory requirements from a posting.
func HardFiltersForJob(j job.Requirement) HardFilterSet {
	return HardFilterSet{
		RequireSTCW:        j.RequireSTCW,
		RequireENG1:        j.RequireENG1,
		RequiredVisas:      j.RequiredVisas,
		MinExperienceYears: j.MinYearsExperience,
		AvailableBy:        j.StartBy,
	}
}

// PassesHardFilters is a strict conjunction over the filter set. Candidates
// failing it must be excluded before scoring, not scored zero. An expired
// certificate does not satisfy a certificate requirement.
func PassesHardFilters(p candidate.Profile, f HardFilterSet) bool {
	return PassesHardFiltersAt(p, f, time.Now().UTC())
}

// PassesHardFiltersAt is PassesHardFilters with an explicit evaluation time,
// used for certificate expiry checks.
func PassesHardFiltersAt(p candidate.Profile, f HardFilterSet, now time.Time) bool {
	if f.RequireSTCW && !candidate.CertValidAt(p.HasSTCW, p.STCWExpiry, now) {
		return false
	}
	if f.RequireENG1 && !candidate.CertValidAt(p.HasENG1, p.ENG1Expiry, now) {
		return false
	}

	for _, visa := range f.RequiredVisas {
		if !p.HasVisa(visa) {
			return false
		}
	}

	if f.MinExperienceYears != nil && p.YearsExperience < *f.MinExperienceYears {
		return false
	}

	if f.AvailableBy != nil {
		// A candidate without a stated date is not hard-failed; the
		// availability sub-score handles the uncertainty.
		if p.AvailableFrom != nil && p.Availability != candidate.AvailableNow && p.AvailableFrom.After(*f.AvailableBy) {
			return false
		}
	}

	return true
}
