package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"mental-health-agent-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Message string `json:"message" validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Message: "hi"}))

	err := ValidateRequest(sampleRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message failed on 'required'")
}

func decodeDetail(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload["detail"]
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/bad", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad input")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("db password in here")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantDetail string
	}{
		{path: "/bad", wantStatus: fiber.StatusBadRequest, wantDetail: "bad input"},
		{path: "/boom", wantStatus: fiber.StatusInternalServerError, wantDetail: "Internal server error"},
		{path: "/missing", wantStatus: fiber.StatusNotFound, wantDetail: "Cannot GET /missing"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantDetail, decodeDetail(t, resp.Body))
		})
	}
}

func TestCallerIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(CallerIdentity(ctx))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", string(body))
}
