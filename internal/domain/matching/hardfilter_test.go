package matching

import (
	"testing"
	"time"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
)

func TestPassesHardFilters_NoConstraints(t *testing.T) {
	if !PassesHardFilters(candidate.Profile{}, HardFilterSet{}) {
		t.Fatalf("empty filter set must pass any candidate")
	}
}

func TestPassesHardFilters_MissingMandatoryCert(t *testing.T) {
	p := fullProfile()
	p.HasSTCW = false

	if PassesHardFilters(p, HardFilterSet{RequireSTCW: true}) {
		t.Fatalf("candidate without STCW must fail an STCW requirement")
	}
	if !PassesHardFilters(p, HardFilterSet{RequireENG1: true}) {
		t.Fatalf("ENG1 holder must pass an ENG1 requirement")
	}
}

func TestPassesHardFilters_ExpiredCertCountsAsAbsent(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, -1, 0)

	p := fullProfile()
	p.STCWExpiry = &expired

	if PassesHardFiltersAt(p, HardFilterSet{RequireSTCW: true}, now) {
		t.Fatalf("expired STCW must not satisfy an STCW requirement")
	}

	valid := now.AddDate(1, 0, 0)
	p.STCWExpiry = &valid
	if !PassesHardFiltersAt(p, HardFilterSet{RequireSTCW: true}, now) {
		t.Fatalf("valid STCW must satisfy an STCW requirement")
	}
}

func TestPassesHardFilters_Visas(t *testing.T) {
	p := fullProfile()

	f := HardFilterSet{RequiredVisas: []candidate.VisaKind{candidate.VisaB1B2}}
	if !PassesHardFilters(p, f) {
		t.Fatalf("B1/B2 holder must pass")
	}

	f.RequiredVisas = []candidate.VisaKind{candidate.VisaB1B2, candidate.VisaC1D}
	if PassesHardFilters(p, f) {
		t.Fatalf("missing C1/D must fail the conjunction")
	}
}

func TestPassesHardFilters_MinExperience(t *testing.T) {
	p := fullProfile()
	p.YearsExperience = 4

	five := 5
	if PassesHardFilters(p, HardFilterSet{MinExperienceYears: &five}) {
		t.Fatalf("4 years must fail a 5-year minimum")
	}

	four := 4
	if !PassesHardFilters(p, HardFilterSet{MinExperienceYears: &four}) {
		t.Fatalf("meeting the minimum exactly must pass")
	}
}

func TestPassesHardFilters_AvailableBy(t *testing.T) {
	startBy := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := startBy.AddDate(0, 1, 0)

	p := fullProfile()
	p.Availability = candidate.EmployedNotice
	p.AvailableFrom = &late

	if PassesHardFilters(p, HardFilterSet{AvailableBy: &startBy}) {
		t.Fatalf("availability after the deadline must fail")
	}

	p.Availability = candidate.AvailableNow
	if !PassesHardFilters(p, HardFilterSet{AvailableBy: &startBy}) {
		t.Fatalf("available-now candidate must pass regardless of stale date")
	}

	p.Availability = candidate.EmployedNotice
	p.AvailableFrom = nil
	if !PassesHardFilters(p, HardFilterSet{AvailableBy: &startBy}) {
		t.Fatalf("unknown availability date must not hard-fail")
	}
}

func TestHardFiltersForJob(t *testing.T) {
	min := 3
	startBy := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	j := job.Requirement{
		RequireSTCW:        true,
		RequiredVisas:      []candidate.VisaKind{candidate.VisaSchengen},
		MinYearsExperience: &min,
		StartBy:            &startBy,
	}

	f := HardFiltersForJob(j)
	if !f.RequireSTCW || f.RequireENG1 {
		t.Fatalf("cert flags not carried over: %+v", f)
	}
	if len(f.RequiredVisas) != 1 || f.RequiredVisas[0] != candidate.VisaSchengen {
		t.Fatalf("visas not carried over: %+v", f.RequiredVisas)
	}
	if f.MinExperienceYears == nil || *f.MinExperienceYears != 3 {
		t.Fatalf("min experience not carried over")
	}
	if f.AvailableBy == nil || !f.AvailableBy.Equal(startBy) {
		t.Fatalf("available-by not carried over")
	}
}
