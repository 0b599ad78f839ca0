package matching

import (
	"testing"

	"github.com/google/uuid"
)

func internalResult(key string, score int) Result {
	id := uuid.New()
	return Result{
		CandidateID:  id,
		CandidateKey: key,
		OverallScore: score,
		Breakdown:    &Breakdown{},
		Provenance:   ProvenanceInternal,
	}
}

func intPtr(v int) *int { return &v }

func TestAggregate_SortedDescending(t *testing.T) {
	internal := []Result{
		internalResult("a", 55),
		internalResult("b", 91),
		internalResult("c", 70),
	}
	previews := []ExternalPreview{
		{ExternalID: "ext-1", Name: "Deckhand X", MatchScore: intPtr(80)},
		{ExternalID: "ext-2", Name: "Stew Y", MatchScore: intPtr(12)},
	}

	out := Aggregate(internal, previews)
	if len(out) != 5 {
		t.Fatalf("expected 5 results, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].OverallScore > out[i-1].OverallScore {
			t.Fatalf("not sorted descending at %d: %d > %d", i, out[i].OverallScore, out[i-1].OverallScore)
		}
	}
}

func TestAggregate_TieBreakInternalFirstThenKey(t *testing.T) {
	internal := []Result{internalResult("zzz", 70)}
	previews := []ExternalPreview{
		{ExternalID: "aaa", MatchScore: intPtr(70)},
		{ExternalID: "bbb", MatchScore: intPtr(70)},
	}

	out := Aggregate(internal, previews)
	if out[0].Provenance != ProvenanceInternal {
		t.Fatalf("internal must precede external on ties, got %s first", out[0].Provenance)
	}
	if out[1].CandidateKey != "aaa" || out[2].CandidateKey != "bbb" {
		t.Fatalf("external ties must order by key: %s, %s", out[1].CandidateKey, out[2].CandidateKey)
	}
}

func TestAggregate_NormalizesPreviews(t *testing.T) {
	previews := []ExternalPreview{
		{ExternalID: "ext-1", Name: "  Chef Z  ", MatchScore: intPtr(140), Reasoning: "solid galley record"},
		{SourceURL: "https://board.example/crew/42", MatchScore: intPtr(-5)},
		{}, // no identity at all: dropped
	}

	out := Aggregate(nil, previews)
	if len(out) != 2 {
		t.Fatalf("expected 2 normalized previews, got %d", len(out))
	}
	for _, r := range out {
		if r.Provenance != ProvenanceExternal {
			t.Fatalf("preview must carry external provenance")
		}
		if r.Breakdown != nil {
			t.Fatalf("preview must have no breakdown")
		}
		if r.OverallScore < 0 || r.OverallScore > 100 {
			t.Fatalf("preview score not clamped: %d", r.OverallScore)
		}
	}
	if out[0].CandidateName != "Chef Z" {
		t.Fatalf("name not trimmed: %q", out[0].CandidateName)
	}
	if out[1].CandidateKey == "" {
		t.Fatalf("URL-only preview must derive a stable key")
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	out := Aggregate(nil, nil)
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
