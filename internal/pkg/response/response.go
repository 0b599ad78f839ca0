package response

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// SemanticResponse is the uniform envelope for every endpoint. Outcome
// carries the eligibility gate's typed decision code; endpoints without
// a gate decision leave it empty.
type SemanticResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Outcome string `json:"outcome,omitempty"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

var statusMessages = map[int]string{
	fiber.StatusOK:                  MessageOK,
	fiber.StatusBadRequest:          MessageBadRequest,
	fiber.StatusUnauthorized:        MessageUnauthorized,
	fiber.StatusForbidden:           MessageForbidden,
	fiber.StatusNotFound:            MessageNotFound,
	fiber.StatusConflict:            MessageConflict,
	fiber.StatusUnprocessableEntity: MessageUnprocessableEntity,
	fiber.StatusInternalServerError: MessageInternalServerError,
}

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, SemanticResponse{Status: status, Message: message, Data: data})
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, SemanticResponse{Status: status, Message: message, Data: data})
}

// Outcome writes a gate decision. The message is derived from the
// outcome code so clients can show it as-is.
func Outcome(c fiber.Ctx, status int, outcome string, data any) error {
	return write(c, SemanticResponse{
		Status:  status,
		Message: strings.ReplaceAll(outcome, "_", " "),
		Outcome: outcome,
		Data:    data,
	})
}

func write(c fiber.Ctx, r SemanticResponse) error {
	if r.Status < 100 || r.Status > 599 {
		r.Status = fiber.StatusInternalServerError
	}
	if r.Message == "" {
		r.Message = DefaultMessage(r.Status)
	}
	return c.Status(r.Status).JSON(r)
}

func DefaultMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return MessageInternalServerError
	}
	return MessageError
}
