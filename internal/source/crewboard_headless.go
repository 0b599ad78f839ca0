package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/matching"
)

type headlessCard struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Experience   string `json:"experience"`
	Availability string `json:"availability"`
	Score        string `json:"score"`
	URL          string `json:"url"`
	STCW         bool   `json:"stcw"`
	ENG1         bool   `json:"eng1"`
}

// fetchListingHeadless renders the first search page in a browser for
// boards that hydrate cards client-side.
func (b *CrewBoard) fetchListingHeadless(ctx context.Context, category candidate.PositionCategory) ([]matching.ExternalPreview, error) {
	if b == nil {
		return nil, fmt.Errorf("nil source")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(httpHeaders()["User-Agent"]),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, b.timeout)
	defer reqCancel()

	var cards []headlessCard
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(b.listURL(category, 1)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1200*time.Millisecond),
		chromedp.EvaluateAsDevTools(`Array.from(document.querySelectorAll('article.crew-card')).map(c => ({
			id: c.getAttribute('data-crew-id') || '',
			name: (c.querySelector('.crew-name') || {}).textContent || '',
			position: (c.querySelector('.crew-position') || {}).textContent || '',
			experience: (c.querySelector('.crew-experience') || {}).textContent || '',
			availability: (c.querySelector('.crew-availability') || {}).textContent || '',
			score: c.getAttribute('data-match-score') || '',
			url: (c.querySelector('a.crew-link') || {}).href || '',
			stcw: !!c.querySelector('.badge-stcw'),
			eng1: !!c.querySelector('.badge-eng1')
		}))`, &cards),
	)
	if err != nil {
		return nil, err
	}

	out := make([]matching.ExternalPreview, 0, len(cards))
	seen := map[string]struct{}{}
	for _, c := range cards {
		p := matching.ExternalPreview{
			ExternalID:       strings.TrimSpace(c.ID),
			Name:             strings.TrimSpace(c.Name),
			Position:         strings.TrimSpace(c.Position),
			AvailabilityText: strings.TrimSpace(c.Availability),
			SourceURL:        strings.TrimSpace(c.URL),
		}
		if p.ExternalID == "" && p.SourceURL == "" {
			continue
		}
		if y := parseYears(c.Experience); y != nil {
			p.YearsExperience = y
		}
		if s := parseScore(c.Score); s != nil {
			p.MatchScore = s
		}
		if c.STCW {
			yes := true
			p.HasSTCW = &yes
		}
		if c.ENG1 {
			yes := true
			p.HasENG1 = &yes
		}

		k := previewKey(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no crew cards found (headless)")
	}
	return out, nil
}
