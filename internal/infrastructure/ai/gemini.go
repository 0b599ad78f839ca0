package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
	"crew-match/internal/domain/matching"
)

const defaultModel = "gemini-2.5-flash"

// Gemini scores candidate fit with the Google GenAI API. Callers treat
// any error as a degraded assessment rather than a failure.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

func (g *Gemini) Assess(ctx context.Context, p candidate.Profile, req job.Requirement) (matching.Assessment, error) {
	if g == nil || g.client == nil {
		return matching.Assessment{Unavailable: true}, errors.New("gemini client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(p, req)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return matching.Assessment{Unavailable: true}, fmt.Errorf("generate content: %w", err)
	}

	return parseAssessment(firstText(resp))
}

func buildPrompt(p candidate.Profile, req job.Requirement) string {
	var b strings.Builder
	b.WriteString("You are screening a candidate for a yacht and household staffing role.\n")
	b.WriteString("Respond with JSON only: {\"score\": <0-10 integer>, \"strengths\": [..], \"concerns\": [..]}.\n")
	b.WriteString("Score holistic fit beyond the hard requirements. List concrete strengths and concerns as short phrases.\n\n")

	fmt.Fprintf(&b, "Job: %s (%s) aboard %s in %s, contract %s.\n", req.Title, req.Position, req.Vessel, req.Location, req.ContractType)
	if req.MinYearsExperience != nil {
		fmt.Fprintf(&b, "Minimum experience: %d years.\n", *req.MinYearsExperience)
	}
	if req.RequireSTCW {
		b.WriteString("STCW required.\n")
	}
	if req.RequireENG1 {
		b.WriteString("ENG1 required.\n")
	}

	fmt.Fprintf(&b, "\nCandidate: %s, %d years experience, availability %s.\n", p.FullName(), p.YearsExperience, p.Availability)
	if len(p.PreferredPositions) > 0 {
		fmt.Fprintf(&b, "Preferred positions: %s.\n", strings.Join(p.PreferredPositions, ", "))
	}
	if p.HasSTCW {
		b.WriteString("Holds STCW.\n")
	}
	if p.HasENG1 {
		b.WriteString("Holds ENG1.\n")
	}
	if len(p.Visas) > 0 {
		visas := make([]string, 0, len(p.Visas))
		for _, v := range p.Visas {
			visas = append(visas, string(v))
		}
		fmt.Fprintf(&b, "Visas: %s.\n", strings.Join(visas, ", "))
	}

	return b.String()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part == nil {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

type assessmentPayload struct {
	Score     *float64 `json:"score"`
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
}

func parseAssessment(raw string) (matching.Assessment, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return matching.Assessment{Unavailable: true}, errors.New("empty model response")
	}

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return matching.Assessment{Unavailable: true}, fmt.Errorf("decode assessment: %w", err)
	}
	if payload.Score == nil {
		return matching.Assessment{Unavailable: true}, errors.New("assessment missing score")
	}

	score := *payload.Score
	if score < 0 {
		score = 0
	}
	if score > matching.MaxAssessment {
		score = matching.MaxAssessment
	}

	return matching.Assessment{
		Score:     score,
		Strengths: trimAll(payload.Strengths),
		Concerns:  trimAll(payload.Concerns),
	}, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
