package cooperationHandler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/cooperation"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	jwtPkg "github.com/TheNopenator/EcoVision/pkg/jwt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

type fakeService struct {
	got       *cooperation.CreateCooperationRequest
	gotFilter string
}

func (f *fakeService) CreateCooperationRequest(_ context.Context, req cooperation.CreateCooperationRequest) (*cooperation.CreateCooperationResponse, error) {
	f.got = &req
	return &cooperation.CreateCooperationResponse{ID: "c1", Status: "new"}, nil
}

func (f *fakeService) GetCooperationRequests(_ context.Context, status string) ([]entity.CooperationRequest, error) {
	f.gotFilter = status
	return []entity.CooperationRequest{}, nil
}

func (f *fakeService) UpdateStatus(context.Context, string, string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *fakeService) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := &fakeService{}
	mw := middleware.New(logger, middleware.Config{RequestsPerSecond: 100, Burst: 100, JWTSecret: testSecret}, nil)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app.Group("/api/v1"))
	return app, svc
}

func jsonRequest(method, url, body, token string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

const structured = `{"company_name":"Acme","contact_person":"Jane","email":"jane@acme.test","cooperation_type":"research","cooperation_details":"Joint study"}`

func TestCreateCooperationRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"structured body", structured, fiber.StatusCreated},
		{"content envelope", `{"content":` + quote(structured) + `}`, fiber.StatusCreated},
		{"content is not JSON", `{"content":"hello"}`, fiber.StatusBadRequest},
		{"unknown type", strings.Replace(structured, "research", "charity", 1), fiber.StatusBadRequest},
		{"bad email", strings.Replace(structured, "jane@acme.test", "jane", 1), fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, svc := newTestApp(t)

			resp, err := app.Test(jsonRequest("POST", "/api/v1/cooperation", tt.body, ""))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.want == fiber.StatusCreated {
				require.NotNil(t, svc.got)
				assert.Equal(t, "Acme", svc.got.CompanyName)
				assert.Equal(t, "research", svc.got.CooperationType)
			}
		})
	}
}

func TestCooperationRequests_OperatorOnly(t *testing.T) {
	app, svc := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/cooperation-requests", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := jwtPkg.Sign(testSecret, "ops", jwtPkg.RoleOperator, time.Hour)
	require.NoError(t, err)

	resp, err = app.Test(jsonRequest("GET", "/api/v1/cooperation-requests?status=contacted", "", token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "contacted", svc.gotFilter)

	resp, err = app.Test(jsonRequest("PATCH", "/api/v1/cooperation-requests/c1/status", `{"status":"closed"}`, token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PATCH", "/api/v1/cooperation-requests/c1/status", `{"status":"archived"}`, token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
