package matching

import "strings"

// redFlagTerms marks high-severity concern text. Keyword matching is
// best-effort triage for recruiters, not a compliance decision.
var redFlagTerms = []string{
	"terminated",
	"termination",
	"dismissed",
	"fired",
	"breach of contract",
	"contract breach",
	"abandoned vessel",
	"walked off",
	"expired stcw",
	"expired eng1",
	"expired medical",
	"no valid medical",
	"blacklisted",
	"failed drug test",
	"criminal",
}

// ClassifyConcerns splits free-text concerns into plain concerns and red
// flags by keyword match against the fixed high-severity list.
func ClassifyConcerns(concerns []string) (plain []string, redFlags []string) {
	plain = make([]string, 0, len(concerns))
	redFlags = make([]string, 0)

	for _, c := range concerns {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if isRedFlag(c) {
			redFlags = append(redFlags, c)
			continue
		}
		plain = append(plain, c)
	}
	return plain, redFlags
}

func isRedFlag(concern string) bool {
	lower := strings.ToLower(concern)
	for _, term := range redFlagTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
