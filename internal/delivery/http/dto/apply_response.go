package dto

type ApplicationResponse struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	Stage       string `json:"stage"`
	Source      string `json:"source"`
	AppliedAt   string `json:"applied_at"`
}

type ApplyResponse struct {
	Outcome           string               `json:"outcome"`
	Application       *ApplicationResponse `json:"application,omitempty"`
	CompletenessScore int                  `json:"completeness_score"`
	MissingFacets     []string             `json:"missing_facets,omitempty"`
}
