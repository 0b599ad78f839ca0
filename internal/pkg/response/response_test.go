package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func doRequest(t *testing.T, handler fiber.Handler) (int, SemanticResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body SemanticResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return resp.StatusCode, body
}

func TestOutcomeEnvelope(t *testing.T) {
	status, body := doRequest(t, func(c fiber.Ctx) error {
		return Outcome(c, fiber.StatusConflict, "already_applied", nil)
	})
	if status != fiber.StatusConflict {
		t.Fatalf("status = %d", status)
	}
	if body.Outcome != "already_applied" {
		t.Fatalf("outcome = %q", body.Outcome)
	}
	if body.Message != "already applied" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestSuccessOmitsOutcome(t *testing.T) {
	_, body := doRequest(t, func(c fiber.Ctx) error {
		return Success(c, fiber.StatusOK, "", map[string]int{"n": 1})
	})
	if body.Outcome != "" {
		t.Fatalf("outcome should be empty, got %q", body.Outcome)
	}
	if body.Message != MessageOK {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestDefaultMessage(t *testing.T) {
	cases := map[int]string{
		fiber.StatusNotFound:            MessageNotFound,
		fiber.StatusBadGateway:          MessageInternalServerError,
		fiber.StatusUnprocessableEntity: MessageUnprocessableEntity,
		fiber.StatusTeapot:              MessageError,
	}
	for status, want := range cases {
		if got := DefaultMessage(status); got != want {
			t.Fatalf("DefaultMessage(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestInvalidStatusNormalized(t *testing.T) {
	status, body := doRequest(t, func(c fiber.Ctx) error {
		return Error(c, 0, "", nil)
	})
	if status != fiber.StatusInternalServerError || body.Status != fiber.StatusInternalServerError {
		t.Fatalf("status = %d body.Status = %d", status, body.Status)
	}
}
