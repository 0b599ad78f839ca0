package handler

import (
	"errors"

	"crew-match/internal/delivery/http/dto"
	"crew-match/internal/delivery/http/middleware"
	"crew-match/internal/domain/matching"
	"crew-match/internal/pkg/response"
	"crew-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// RegisterRecruiterRoutes mounts the full ranked listing; callers guard
// it with the recruiter role check.
func (h *MatchHandler) RegisterRecruiterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/:job_id/matches", h.GetMatches)
}

// RegisterRoutes mounts the single-candidate view available to any
// authenticated user.
func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/:job_id/match", h.GetMyMatch)
}

func (h *MatchHandler) GetMyMatch(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	candidateID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	result, eligible, err := h.uc.MatchForCandidate(c.Context(), jobID, candidateID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrJobNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		case errors.Is(err, usecase.ErrProfileNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	out := dto.MyMatchResponse{
		JobID:    jobID.String(),
		Eligible: eligible,
		Result:   toMatchResultResponse(result),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) GetMatches(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	results, err := h.uc.MatchesForJob(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := dto.MatchListResponse{
		JobID:   jobID.String(),
		Total:   len(results),
		Results: make([]dto.MatchResultResponse, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, toMatchResultResponse(r))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toMatchResultResponse(r matching.Result) dto.MatchResultResponse {
	res := dto.MatchResultResponse{
		CandidateKey:          r.CandidateKey,
		CandidateName:         r.CandidateName,
		OverallScore:          r.OverallScore,
		Strengths:             r.Strengths,
		Concerns:              r.Concerns,
		RedFlags:              r.RedFlags,
		Provenance:            string(r.Provenance),
		AssessmentUnavailable: r.AssessmentUnavailable,
		SourceURL:             r.SourceURL,
		Summary:               r.Summary,
	}
	if r.CandidateID != uuid.Nil {
		res.CandidateID = r.CandidateID.String()
	}
	if r.Breakdown != nil {
		res.Breakdown = &dto.BreakdownResponse{
			Qualifications: r.Breakdown.Qualifications,
			Experience:     r.Breakdown.Experience,
			Availability:   r.Breakdown.Availability,
			Preferences:    r.Breakdown.Preferences,
			Verification:   r.Breakdown.Verification,
			Assessment:     r.Breakdown.Assessment,
		}
	}
	return res
}
