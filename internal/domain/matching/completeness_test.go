package matching

import (
	"testing"

	"github.com/google/uuid"

	"crew-match/internal/domain/candidate"
)

func fullProfile() candidate.Profile {
	return candidate.Profile{
		ID:               uuid.New(),
		FirstName:        "Anna",
		LastName:         "Kovacs",
		Email:            "anna@example.com",
		Phone:            "+33 6 00 00 00 00",
		PrimaryPosition:  "Chief Stewardess",
		YearsExperience:  6,
		HasSTCW:          true,
		HasENG1:          true,
		Visas:            []candidate.VisaKind{candidate.VisaB1B2, candidate.VisaSchengen},
		DesiredSalaryMin: 4500,
		DesiredSalaryMax: 5500,
		SalaryCurrency:   "EUR",
		Availability:     candidate.AvailableNow,
		Verification:     candidate.TierVerified,
		HasCV:            true,
		Active:           true,
	}
}

func TestEvaluateCompleteness_EmptyProfile(t *testing.T) {
	got := EvaluateCompleteness(candidate.Profile{})
	if got.Score != 0 {
		t.Fatalf("expected score 0, got %d", got.Score)
	}
	if len(got.MissingFacets) != len(AllFacets()) {
		t.Fatalf("expected all %d facets missing, got %d", len(AllFacets()), len(got.MissingFacets))
	}
	for i, f := range AllFacets() {
		if got.MissingFacets[i] != f {
			t.Fatalf("missing facets out of canonical order at %d: got %s want %s", i, got.MissingFacets[i], f)
		}
	}
}

func TestEvaluateCompleteness_FullProfile(t *testing.T) {
	got := EvaluateCompleteness(fullProfile())
	if got.Score != 100 {
		t.Fatalf("expected score 100, got %d", got.Score)
	}
	if len(got.MissingFacets) != 0 {
		t.Fatalf("expected no missing facets, got %v", got.MissingFacets)
	}
	if !got.QuickApplyEligible() {
		t.Fatalf("expected quick-apply eligible")
	}
}

func TestEvaluateCompleteness_MonotonicUnderAdditiveEdits(t *testing.T) {
	p := candidate.Profile{}
	prev := EvaluateCompleteness(p).Score

	edits := []func(*candidate.Profile){
		func(p *candidate.Profile) { p.FirstName, p.LastName = "Anna", "Kovacs" },
		func(p *candidate.Profile) { p.Email, p.Phone = "anna@example.com", "+33600000000" },
		func(p *candidate.Profile) { p.PrimaryPosition = "Stewardess" },
		func(p *candidate.Profile) { p.YearsExperience = 3 },
		func(p *candidate.Profile) { p.HasSTCW = true },
		func(p *candidate.Profile) { p.Availability = candidate.ActivelyLooking },
		func(p *candidate.Profile) { p.DesiredSalaryMin, p.SalaryCurrency = 3000, "EUR" },
		func(p *candidate.Profile) { p.HasCV = true },
	}

	for i, edit := range edits {
		edit(&p)
		got := EvaluateCompleteness(p).Score
		if got < prev {
			t.Fatalf("score decreased after additive edit %d: %d -> %d", i, prev, got)
		}
		prev = got
	}

	if prev != 100 {
		t.Fatalf("expected 100 after all edits, got %d", prev)
	}
}

func TestEvaluateCompleteness_ScoreBounds(t *testing.T) {
	profiles := []candidate.Profile{
		{},
		{FirstName: "Only", LastName: "Name"},
		{HasCV: true},
		fullProfile(),
	}
	for i, p := range profiles {
		got := EvaluateCompleteness(p)
		if got.Score < 0 || got.Score > 100 {
			t.Fatalf("profile %d: score out of range: %d", i, got.Score)
		}
	}
}

func TestEvaluateCompleteness_BelowThresholdNotEligible(t *testing.T) {
	p := candidate.Profile{FirstName: "Anna", LastName: "Kovacs", HasCV: true}
	got := EvaluateCompleteness(p)
	if got.QuickApplyEligible() {
		t.Fatalf("expected not eligible at score %d", got.Score)
	}
}
