package matching

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// ExternalPreview is a loosely-typed candidate record from the external job
// board. Every field is optional; the scraper gives no schema guarantee.
// Normalization happens here, at the aggregator boundary, so untyped shapes
// never reach scoring logic.
type ExternalPreview struct {
	ExternalID       string
	Name             string
	Position         string
	YearsExperience  *int
	AvailabilityText string
	HasSTCW          *bool
	HasENG1          *bool
	SourceURL        string

	MatchScore *int
	Reasoning  string
}

// NormalizePreview converts a preview into the shared Result shape: no
// breakdown, external provenance, score clamped to 0-100. Previews with no
// usable identity are dropped.
func NormalizePreview(p ExternalPreview) (Result, bool) {
	key := strings.TrimSpace(p.ExternalID)
	if key == "" {
		key = stableKeyFromURL(p.SourceURL)
	}
	if key == "" {
		return Result{}, false
	}

	score := 0
	if p.MatchScore != nil {
		score = *p.MatchScore
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
	}

	res := Result{
		CandidateKey:  key,
		CandidateName: strings.TrimSpace(p.Name),
		OverallScore:  score,
		Provenance:    ProvenanceExternal,
		SourceURL:     strings.TrimSpace(p.SourceURL),
		Summary:       strings.TrimSpace(p.Reasoning),
	}
	return res, true
}

// Aggregate merges scored internal results with external previews into one
// ranked list: descending by score, ties broken internal-first, then by
// candidate key for determinism. No deduplication is attempted across
// sources; internal and external identifier spaces are assumed disjoint.
func Aggregate(internal []Result, previews []ExternalPreview) []Result {
	out := make([]Result, 0, len(internal)+len(previews))
	out = append(out, internal...)

	for _, p := range previews {
		res, ok := NormalizePreview(p)
		if !ok {
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OverallScore != out[j].OverallScore {
			return out[i].OverallScore > out[j].OverallScore
		}
		if out[i].Provenance != out[j].Provenance {
			return out[i].Provenance == ProvenanceInternal
		}
		return out[i].CandidateKey < out[j].CandidateKey
	})

	return out
}

func stableKeyFromURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	h := sha1.Sum([]byte(u))
	return "urlsha1-" + hex.EncodeToString(h[:])
}
