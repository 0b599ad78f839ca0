package matching

import (
	"math"
	"testing"
	"time"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
)

func openJob() job.Requirement {
	min := 3
	startBy := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return job.Requirement{
		Title:              "Chief Stewardess - 60m M/Y",
		Position:           "Chief Stewardess",
		Location:           "Antibes",
		ContractType:       "permanent",
		RequireSTCW:        true,
		RequireENG1:        true,
		RequiredVisas:      []candidate.VisaKind{candidate.VisaB1B2},
		MinYearsExperience: &min,
		StartBy:            &startBy,
		Status:             job.StatusOpen,
		Public:             true,
	}
}

func assertCeilings(t *testing.T, bd Breakdown) {
	t.Helper()
	checks := []struct {
		name    string
		val     float64
		ceiling float64
	}{
		{"qualifications", bd.Qualifications, MaxQualifications},
		{"experience", bd.Experience, MaxExperience},
		{"availability", bd.Availability, MaxAvailability},
		{"preferences", bd.Preferences, MaxPreferences},
		{"verification", bd.Verification, MaxVerification},
		{"assessment", bd.Assessment, MaxAssessment},
	}
	for _, c := range checks {
		if c.val < 0 || c.val > c.ceiling {
			t.Fatalf("%s sub-score %.2f outside [0,%.0f]", c.name, c.val, c.ceiling)
		}
	}
}

func TestScore_OverallIsRoundedSumOfBreakdown(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := fullProfile()
	p.PreferredPositions = []string{"Chief Stewardess"}
	p.PreferredLocations = []string{"antibes"}

	res := ScoreAt(p, openJob(), Assessment{Score: 7.5, Strengths: []string{"strong interior background"}}, now)

	if res.Breakdown == nil {
		t.Fatalf("internal result must carry a breakdown")
	}
	assertCeilings(t, *res.Breakdown)

	want := int(math.Round(res.Breakdown.Sum()))
	if res.OverallScore != want {
		t.Fatalf("overall %d != round(sum) %d", res.OverallScore, want)
	}
	if res.OverallScore < 0 || res.OverallScore > 100 {
		t.Fatalf("overall out of range: %d", res.OverallScore)
	}
	if res.Provenance != ProvenanceInternal {
		t.Fatalf("expected internal provenance, got %s", res.Provenance)
	}
}

func TestScore_FullQualificationsAndExperience(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := fullProfile()
	p.YearsExperience = 6 // minimum 3 + surplus 3

	res := ScoreAt(p, openJob(), Assessment{}, now)

	if res.Breakdown.Qualifications != MaxQualifications {
		t.Fatalf("expected full qualifications, got %.2f", res.Breakdown.Qualifications)
	}
	if res.Breakdown.Experience != MaxExperience {
		t.Fatalf("expected full experience at surplus, got %.2f", res.Breakdown.Experience)
	}
}

func TestScore_ExperienceInterpolation(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	j := openJob()

	p := fullProfile()
	p.YearsExperience = 3 // exactly the minimum
	atMin := ScoreAt(p, j, Assessment{}, now).Breakdown.Experience

	p.YearsExperience = 4
	oneUp := ScoreAt(p, j, Assessment{}, now).Breakdown.Experience

	p.YearsExperience = 10
	capped := ScoreAt(p, j, Assessment{}, now).Breakdown.Experience

	if atMin != 0 {
		t.Fatalf("at bare minimum expected 0, got %.2f", atMin)
	}
	if oneUp <= atMin || oneUp >= MaxExperience {
		t.Fatalf("one year of surplus should score strictly between 0 and max, got %.2f", oneUp)
	}
	if capped != MaxExperience {
		t.Fatalf("well above surplus should cap at max, got %.2f", capped)
	}
}

func TestScore_AvailabilityPartialCredit(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	j := openJob()

	p := fullProfile()
	p.Availability = candidate.EmployedNotice
	late := j.StartBy.AddDate(0, 0, 30)
	p.AvailableFrom = &late

	got := ScoreAt(p, j, Assessment{}, now).Breakdown.Availability
	if got <= 0 || got >= MaxAvailability {
		t.Fatalf("30 days late expected partial credit, got %.2f", got)
	}

	p.Availability = candidate.NotLooking
	if s := ScoreAt(p, j, Assessment{}, now).Breakdown.Availability; s != 0 {
		t.Fatalf("not-looking expected 0, got %.2f", s)
	}
}

func TestScore_NoDeclaredPreferencesScoresZero(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := fullProfile()
	p.PreferredPositions = nil
	p.PreferredLocations = nil
	p.PreferredContractTypes = nil

	res := ScoreAt(p, openJob(), Assessment{}, now)
	if res.Breakdown.Preferences != 0 {
		t.Fatalf("expected 0 preferences sub-score, got %.2f", res.Breakdown.Preferences)
	}
	// The sum invariant must still hold with the zero default.
	if res.OverallScore != int(math.Round(res.Breakdown.Sum())) {
		t.Fatalf("sum invariant broken")
	}
}

func TestScore_DegradedAssessment(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := fullProfile()

	base := ScoreAt(p, openJob(), Assessment{Score: 9}, now)
	degraded := ScoreAt(p, openJob(), Assessment{Score: 9, Unavailable: true}, now)

	if degraded.Breakdown.Assessment != 0 {
		t.Fatalf("unavailable assessment must score 0, got %.2f", degraded.Breakdown.Assessment)
	}
	if !degraded.AssessmentUnavailable {
		t.Fatalf("degraded flag not set")
	}
	if degraded.Breakdown.Qualifications != base.Breakdown.Qualifications ||
		degraded.Breakdown.Experience != base.Breakdown.Experience ||
		degraded.Breakdown.Availability != base.Breakdown.Availability ||
		degraded.Breakdown.Preferences != base.Breakdown.Preferences ||
		degraded.Breakdown.Verification != base.Breakdown.Verification {
		t.Fatalf("other sub-scores must be unaffected by assessment degradation")
	}
}

func TestScore_AssessmentClamped(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := fullProfile()

	high := ScoreAt(p, openJob(), Assessment{Score: 42}, now)
	if high.Breakdown.Assessment != MaxAssessment {
		t.Fatalf("assessment above ceiling must clamp, got %.2f", high.Breakdown.Assessment)
	}

	neg := ScoreAt(p, openJob(), Assessment{Score: -3}, now)
	if neg.Breakdown.Assessment != 0 {
		t.Fatalf("negative assessment must clamp to 0, got %.2f", neg.Breakdown.Assessment)
	}
}

func TestClassifyConcerns(t *testing.T) {
	concerns := []string{
		"Short stints on the last two vessels",
		"Was terminated from previous yacht for cause",
		"Expired STCW certificate; renewal pending",
		"",
	}

	plain, red := ClassifyConcerns(concerns)
	if len(plain) != 1 {
		t.Fatalf("expected 1 plain concern, got %v", plain)
	}
	if len(red) != 2 {
		t.Fatalf("expected 2 red flags, got %v", red)
	}
}

func TestVerificationTierOrdering(t *testing.T) {
	prev := -1.0
	for _, tier := range []candidate.VerificationTier{
		candidate.TierBasic, candidate.TierIdentity, candidate.TierVerified, candidate.TierPremium,
	} {
		got := verificationScore(tier)
		if got <= prev {
			t.Fatalf("verification score must strictly increase per tier, got %.1f after %.1f", got, prev)
		}
		prev = got
	}
	if prev > MaxVerification {
		t.Fatalf("top tier exceeds ceiling: %.1f", prev)
	}
}
