package dto

type CompletenessResponse struct {
	CandidateID   string   `json:"candidate_id"`
	Score         int      `json:"score"`
	MissingFacets []string `json:"missing_facets"`
	QuickApply    bool     `json:"quick_apply_eligible"`
	HasCV         bool     `json:"has_cv"`
}
