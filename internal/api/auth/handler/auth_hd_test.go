package authHandler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/auth"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	jwtPkg "github.com/TheNopenator/EcoVision/pkg/jwt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

type fakeService struct{}

func (fakeService) Login(_ context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if req.Password != "pw" {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	return auth.LoginResponse{AccessToken: "tok", TokenType: "Bearer"}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger, middleware.Config{RequestsPerSecond: 100, Burst: 100, JWTSecret: testSecret}, nil)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, fakeService{}, validator.New(), mw).Start(app.Group("/api/v1"))
	return app
}

func login(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestHandleLogin(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, fiber.StatusOK, login(t, app, `{"username":"ops","password":"pw"}`))
	assert.Equal(t, fiber.StatusUnauthorized, login(t, app, `{"username":"ops","password":"nope"}`))
	assert.Equal(t, fiber.StatusBadRequest, login(t, app, `{"username":"ops"}`))
}

func TestHandleMe(t *testing.T) {
	app := newTestApp(t)

	token, expiresAt, err := jwtPkg.Sign(testSecret, "ops", jwtPkg.RoleOperator, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got auth.OperatorResponse
	require.NoError(t, jsoniter.Unmarshal(raw, &got))
	assert.Equal(t, "ops", got.Subject)
	assert.Equal(t, expiresAt, got.ExpiresAt)
}
