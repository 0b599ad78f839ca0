package dto

// BreakdownResponse mirrors the six weighted sub-scores. It is omitted for
// external previews, which carry only an overall score.
type BreakdownResponse struct {
	Qualifications float64 `json:"qualifications"`
	Experience     float64 `json:"experience"`
	Availability   float64 `json:"availability"`
	Preferences    float64 `json:"preferences"`
	Verification   float64 `json:"verification"`
	Assessment     float64 `json:"assessment"`
}

type MatchResultResponse struct {
	CandidateID   string `json:"candidate_id,omitempty"`
	CandidateKey  string `json:"candidate_key"`
	CandidateName string `json:"candidate_name,omitempty"`

	OverallScore int                `json:"overall_score"`
	Breakdown    *BreakdownResponse `json:"breakdown,omitempty"`

	Strengths []string `json:"strengths,omitempty"`
	Concerns  []string `json:"concerns,omitempty"`
	RedFlags  []string `json:"red_flags,omitempty"`

	Provenance            string `json:"provenance"`
	AssessmentUnavailable bool   `json:"assessment_unavailable,omitempty"`

	SourceURL string `json:"source_url,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

type MatchListResponse struct {
	JobID   string                `json:"job_id"`
	Total   int                   `json:"total"`
	Results []MatchResultResponse `json:"results"`
}

type MyMatchResponse struct {
	JobID    string              `json:"job_id"`
	Eligible bool                `json:"eligible"`
	Result   MatchResultResponse `json:"result"`
}
