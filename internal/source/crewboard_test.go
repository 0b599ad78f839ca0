package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crew-match/internal/config"
	"crew-match/internal/domain/candidate"
)

const listingHTML = `<!doctype html>
<html><body>
<article class="crew-card" data-crew-id="cb-101" data-match-score="82">
  <a class="crew-link" href="/crew/cb-101"><span class="crew-name">Anna K.</span></a>
  <span class="crew-position">Chief Stewardess</span>
  <span class="crew-experience">8 years</span>
  <span class="crew-availability">Available from June</span>
  <span class="badge-stcw">STCW</span>
  <span class="badge-eng1">ENG1</span>
  <p class="crew-summary">Strong interior lead with charter experience.</p>
</article>
<article class="crew-card" data-crew-id="cb-102">
  <a class="crew-link" href="/crew/cb-102"><span class="crew-name">Marco T.</span></a>
  <span class="crew-position">Deckhand</span>
  <span class="crew-experience">2 yrs</span>
</article>
<article class="crew-card" data-crew-id="cb-101" data-match-score="82">
  <a class="crew-link" href="/crew/cb-101"><span class="crew-name">Anna K.</span></a>
</article>
</body></html>`

func TestCrewBoardFetchPreviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crew/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("position"); got != "interior" {
			t.Fatalf("position = %q", got)
		}
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	b := NewCrewBoard(config.SourceConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})

	got, err := b.FetchPreviews(context.Background(), candidate.CategoryInterior, 1)
	if err != nil {
		t.Fatalf("FetchPreviews: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("previews = %d, want 2 (duplicate card dropped)", len(got))
	}

	anna := got[0]
	if anna.ExternalID != "cb-101" {
		t.Fatalf("external id = %q", anna.ExternalID)
	}
	if anna.Name != "Anna K." {
		t.Fatalf("name = %q", anna.Name)
	}
	if anna.MatchScore == nil || *anna.MatchScore != 82 {
		t.Fatalf("match score = %v", anna.MatchScore)
	}
	if anna.YearsExperience == nil || *anna.YearsExperience != 8 {
		t.Fatalf("years = %v", anna.YearsExperience)
	}
	if anna.HasSTCW == nil || !*anna.HasSTCW {
		t.Fatal("expected stcw badge")
	}
	if anna.HasENG1 == nil || !*anna.HasENG1 {
		t.Fatal("expected eng1 badge")
	}
	if anna.SourceURL != srv.URL+"/crew/cb-101" {
		t.Fatalf("source url = %q", anna.SourceURL)
	}
	if anna.Reasoning == "" {
		t.Fatal("expected summary text")
	}

	marco := got[1]
	if marco.MatchScore != nil {
		t.Fatalf("score = %v, want nil", marco.MatchScore)
	}
	if marco.YearsExperience == nil || *marco.YearsExperience != 2 {
		t.Fatalf("years = %v", marco.YearsExperience)
	}
	if marco.HasSTCW != nil {
		t.Fatal("expected unknown stcw")
	}
}

func TestParseYears(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"8 years", intPtr(8)},
		{"2 yrs", intPtr(2)},
		{"10+ years", intPtr(10)},
		{"seasoned", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := parseYears(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("parseYears(%q) = %d, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("parseYears(%q) = %v, want %d", tc.in, got, *tc.want)
		}
	}
}

func intPtr(v int) *int { return &v }
