package handler

import (
	"errors"
	"time"

	"crew-match/internal/delivery/http/dto"
	"crew-match/internal/delivery/http/middleware"
	"crew-match/internal/pkg/response"
	"crew-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplyHandler struct {
	uc usecase.ApplyUsecase
}

func NewApplyHandler(uc usecase.ApplyUsecase) *ApplyHandler {
	return &ApplyHandler{uc: uc}
}

func (h *ApplyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/jobs/:job_id/apply", h.Apply)
	r.Post("/applications/:application_id/withdraw", h.Withdraw)
}

// outcomeStatus maps every non-success gate outcome to its HTTP status.
var outcomeStatus = map[usecase.ApplyOutcome]int{
	usecase.OutcomeUnauthenticated:   fiber.StatusUnauthorized,
	usecase.OutcomeProfileIncomplete: fiber.StatusUnprocessableEntity,
	usecase.OutcomeCVRequired:        fiber.StatusUnprocessableEntity,
	usecase.OutcomeJobNotAvailable:   fiber.StatusConflict,
	usecase.OutcomeAlreadyApplied:    fiber.StatusConflict,
}

func (h *ApplyHandler) Apply(c fiber.Ctx) error {
	candidateID, _ := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Apply(c.Context(), candidateID, jobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Internal server error", nil, err)
	}

	// Gate decisions are domain results, not errors; they carry the
	// outcome code in the envelope rather than riding the error path.
	body := toApplyResponse(res)
	status := fiber.StatusOK
	if res.Outcome != usecase.OutcomeSuccess {
		var ok bool
		if status, ok = outcomeStatus[res.Outcome]; !ok {
			status = fiber.StatusConflict
		}
	}
	return response.Outcome(c, status, string(res.Outcome), body)
}

func (h *ApplyHandler) Withdraw(c fiber.Ctx) error {
	candidateID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	applicationID, err := uuid.Parse(c.Params("application_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Withdraw(c.Context(), candidateID, applicationID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrApplicationNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
		case errors.Is(err, usecase.ErrInvalidStageTransition):
			return middleware.NewAppError(fiber.StatusConflict, "Application already closed", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, "Internal server error", nil, err)
		}
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func toApplyResponse(res usecase.ApplyResult) dto.ApplyResponse {
	out := dto.ApplyResponse{
		Outcome:           string(res.Outcome),
		CompletenessScore: res.CompletenessScore,
	}
	for _, f := range res.MissingFacets {
		out.MissingFacets = append(out.MissingFacets, string(f))
	}
	if res.Application.ID != uuid.Nil {
		out.Application = &dto.ApplicationResponse{
			ID:          res.Application.ID.String(),
			CandidateID: res.Application.CandidateID.String(),
			JobID:       res.Application.JobID.String(),
			Stage:       string(res.Application.Stage),
			Source:      res.Application.Source,
			AppliedAt:   res.Application.AppliedAt.Format(time.RFC3339),
		}
	}
	return out
}
