package handler

import (
	"errors"

	"crew-match/internal/delivery/http/dto"
	"crew-match/internal/delivery/http/middleware"
	"crew-match/internal/pkg/response"
	"crew-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/completeness", h.MyCompleteness)
}

func (h *ProfileHandler) MyCompleteness(c fiber.Ctx) error {
	candidateID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	report, err := h.uc.Completeness(c.Context(), candidateID)
	if err != nil {
		if errors.Is(err, usecase.ErrProfileNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := dto.CompletenessResponse{
		CandidateID: report.CandidateID.String(),
		Score:       report.Score,
		QuickApply:  report.QuickApply,
		HasCV:       report.HasCV,
	}
	out.MissingFacets = make([]string, 0, len(report.MissingFacets))
	for _, f := range report.MissingFacets {
		out.MissingFacets = append(out.MissingFacets, string(f))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
