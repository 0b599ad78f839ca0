package ai

import (
	"testing"
)

func TestParseAssessment(t *testing.T) {
	a, err := parseAssessment(`{"score": 7, "strengths": ["strong deck background"], "concerns": [" short tenures "]}`)
	if err != nil {
		t.Fatalf("parseAssessment: %v", err)
	}
	if a.Unavailable {
		t.Fatal("expected available assessment")
	}
	if a.Score != 7 {
		t.Fatalf("score = %v, want 7", a.Score)
	}
	if len(a.Strengths) != 1 || a.Strengths[0] != "strong deck background" {
		t.Fatalf("strengths = %v", a.Strengths)
	}
	if len(a.Concerns) != 1 || a.Concerns[0] != "short tenures" {
		t.Fatalf("concerns = %v", a.Concerns)
	}
}

func TestParseAssessmentStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"score\": 4, \"strengths\": [], \"concerns\": []}\n```"
	a, err := parseAssessment(raw)
	if err != nil {
		t.Fatalf("parseAssessment: %v", err)
	}
	if a.Score != 4 {
		t.Fatalf("score = %v, want 4", a.Score)
	}
}

func TestParseAssessmentClampsScore(t *testing.T) {
	a, err := parseAssessment(`{"score": 42}`)
	if err != nil {
		t.Fatalf("parseAssessment: %v", err)
	}
	if a.Score != 10 {
		t.Fatalf("score = %v, want 10", a.Score)
	}

	a, err = parseAssessment(`{"score": -3}`)
	if err != nil {
		t.Fatalf("parseAssessment: %v", err)
	}
	if a.Score != 0 {
		t.Fatalf("score = %v, want 0", a.Score)
	}
}

func TestParseAssessmentRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"not json":      "the candidate looks great",
		"missing score": `{"strengths": ["x"]}`,
	}
	for name, raw := range cases {
		a, err := parseAssessment(raw)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !a.Unavailable {
			t.Fatalf("%s: expected unavailable assessment", name)
		}
	}
}
