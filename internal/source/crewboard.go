package source

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"crew-match/internal/config"
	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/matching"
)

// CrewBoard scrapes candidate preview cards from the partner crew
// directory. The board gives no schema guarantee, so everything parsed
// here stays optional until the aggregator normalizes it.
type CrewBoard struct {
	baseURL     string
	allowedHost string
	headless    bool
	timeout     time.Duration
}

func NewCrewBoard(cfg config.SourceConfig) *CrewBoard {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://board.yachtcrewdirectory.example"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &CrewBoard{
		baseURL:     base,
		allowedHost: hostFromBaseURL(base),
		headless:    cfg.Headless,
		timeout:     timeout,
	}
}

// FetchPreviews pulls preview cards for a position category. When the
// static fetch yields nothing and headless mode is on, it retries the
// first page with a browser before giving up.
func (b *CrewBoard) FetchPreviews(ctx context.Context, category candidate.PositionCategory, pages int) ([]matching.ExternalPreview, error) {
	if b == nil {
		return nil, fmt.Errorf("nil source")
	}
	if pages <= 0 {
		pages = 1
	}

	out := make([]matching.ExternalPreview, 0)
	seen := map[string]struct{}{}
	var lastErr error

	for page := 1; page <= pages; page++ {
		listURL := b.listURL(category, page)
		items, err := b.scrapeListingPage(ctx, listURL)
		if err != nil {
			lastErr = err
			continue
		}
		for _, it := range items {
			k := previewKey(it)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, it)
		}
	}

	if len(out) == 0 && b.headless {
		items, err := b.fetchListingHeadless(ctx, category)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (b *CrewBoard) listURL(category candidate.PositionCategory, page int) string {
	return fmt.Sprintf("%s/crew/search?position=%s&page=%d", b.baseURL, url.QueryEscape(string(category)), page)
}

func (b *CrewBoard) scrapeListingPage(ctx context.Context, listURL string) ([]matching.ExternalPreview, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(b.allowedHost),
	)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 500 * time.Millisecond, Delay: 250 * time.Millisecond})

	items := make([]matching.ExternalPreview, 0)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML("article.crew-card", func(e *colly.HTMLElement) {
		p := matching.ExternalPreview{
			ExternalID:       strings.TrimSpace(e.Attr("data-crew-id")),
			Name:             strings.TrimSpace(e.ChildText(".crew-name")),
			Position:         strings.TrimSpace(e.ChildText(".crew-position")),
			AvailabilityText: strings.TrimSpace(e.ChildText(".crew-availability")),
		}
		if href := strings.TrimSpace(e.ChildAttr("a.crew-link", "href")); href != "" {
			p.SourceURL = e.Request.AbsoluteURL(href)
		}
		if y := parseYears(e.ChildText(".crew-experience")); y != nil {
			p.YearsExperience = y
		}
		if s := parseScore(e.Attr("data-match-score")); s != nil {
			p.MatchScore = s
		}
		if e.DOM.Find(".badge-stcw").Length() > 0 {
			yes := true
			p.HasSTCW = &yes
		}
		if e.DOM.Find(".badge-eng1").Length() > 0 {
			yes := true
			p.HasENG1 = &yes
		}
		p.Reasoning = strings.TrimSpace(e.ChildText(".crew-summary"))
		items = append(items, p)
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}

	return items, nil
}

var yearsRe = regexp.MustCompile(`(\d+)\s*(?:\+\s*)?(?:years?|yrs?)`)

func parseYears(s string) *int {
	m := yearsRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if len(m) < 2 {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}

func parseScore(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

func previewKey(p matching.ExternalPreview) string {
	if p.ExternalID != "" {
		return "id:" + p.ExternalID
	}
	return "url:" + p.SourceURL
}

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "CrewMatchBot/0.1",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func hostFromBaseURL(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}
