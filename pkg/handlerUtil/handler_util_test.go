package handlerUtil

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/TheNopenator/EcoVision/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "domain error keeps its status",
			err:      response.NewError(404, "task not found"),
			wantCode: 404,
			wantBody: `{"error":"task not found"}`,
		},
		{
			name:     "wrapped domain error",
			err:      errors.Join(errors.New("ctx"), response.NewError(400, "invalid status")),
			wantCode: 400,
			wantBody: `{"error":"invalid status"}`,
		},
		{
			name:     "unknown error hides details",
			err:      errors.New("pq: connection refused"),
			wantCode: 500,
			wantBody: `{"error":"An unexpected error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return h.Handle(c, "req-1", tt.err, c.Path(), "test")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestHandleSuccess_NoBody(t *testing.T) {
	h := New(logrus.New())
	app := fiber.New()
	app.Delete("/", func(c *fiber.Ctx) error {
		return h.HandleSuccess(c, fiber.StatusNoContent, nil)
	})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
