package detectionHandler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/detection"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	gorillaws "github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	gotLocation entity.Location
	gotPage     int
	gotLimit    int
	processed   *bool
	frames      atomic.Int32
}

func (f *fakeService) UploadAndDetect(_ context.Context, file *multipart.FileHeader, location entity.Location) (*detection.UploadResponse, error) {
	f.gotLocation = location
	return &detection.UploadResponse{
		DetectionID:     "01HDET",
		ImageURL:        "/media/uploads/" + file.Filename,
		DetectedObjects: []string{"bottle"},
		Detections:      []detection.DetectedObject{{Class: "bottle", Confidence: 0.9, BBox: [4]int{80, 70, 120, 130}, Color: "#00FF00"}},
	}, nil
}

func (f *fakeService) DetectFrame(context.Context, []byte) (*detection.StreamResult, error) {
	f.frames.Add(1)
	return &detection.StreamResult{Width: 4, Height: 4}, nil
}

func (f *fakeService) FrameLimit() int64 { return 64 }

func (f *fakeService) GetAllDetections(_ context.Context, page, limit int) (*detection.DetectionListResponse, error) {
	f.gotPage, f.gotLimit = page, limit
	return &detection.DetectionListResponse{Detections: []detection.DetectionResponse{}, Page: page, Limit: limit}, nil
}

func (f *fakeService) GetDetectionByID(_ context.Context, id string) (entity.TrashDetection, error) {
	if id != "01HDET" {
		return entity.TrashDetection{}, detection.ErrDetectionNotFound
	}
	return entity.TrashDetection{ID: id, DetectedObjects: []string{"can"}}, nil
}

func (f *fakeService) GetRecentDetections(context.Context) ([]entity.TrashDetection, error) {
	return []entity.TrashDetection{{ID: "a"}, {ID: "b"}}, nil
}

func (f *fakeService) GetStatistics(context.Context) (*detection.StatisticsResponse, error) {
	return &detection.StatisticsResponse{TotalDetections: 4, TodayDetections: 1, TrashCounts: map[string]int{"bottle": 4}}, nil
}

func (f *fakeService) UpdateProcessed(_ context.Context, id string, processed bool) (entity.TrashDetection, error) {
	f.processed = &processed
	return entity.TrashDetection{ID: id, Processed: processed}, nil
}

func (f *fakeService) DeleteDetection(context.Context, string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *fakeService) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := &fakeService{}
	mw := middleware.New(logger, middleware.Config{RequestsPerSecond: 100, Burst: 100, JWTSecret: "secret"}, nil)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app.Group("/api/v1"))

	return app, svc
}

func multipartUpload(t *testing.T, url string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		part, err := w.CreateFormFile("image", "street.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, jsoniter.Unmarshal(raw, dest), string(raw))
}

func TestUploadAndDetect(t *testing.T) {
	app, svc := newTestApp(t)

	for _, url := range []string{"/api/v1/detect-trash", "/api/v1/detections/upload"} {
		t.Run(url, func(t *testing.T) {
			req := multipartUpload(t, url, map[string]string{
				"location": `{"lat":-6.2,"lng":106.8,"address":"Jakarta"}`,
			}, true)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

			var got detection.UploadResponse
			decode(t, resp, &got)
			assert.Equal(t, "01HDET", got.DetectionID)
			assert.Equal(t, [4]int{80, 70, 120, 130}, got.Detections[0].BBox)
			assert.Equal(t, "Jakarta", svc.gotLocation.Address)
		})
	}
}

func TestUploadAndDetect_BadInput(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name      string
		fields    map[string]string
		withImage bool
		want      int
	}{
		{"missing image", nil, false, fiber.StatusBadRequest},
		{"location not JSON", map[string]string{"location": "somewhere"}, true, fiber.StatusBadRequest},
		{"latitude out of range", map[string]string{"location": `{"lat":120,"lng":0}`}, true, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(multipartUpload(t, "/api/v1/detect-trash", tt.fields, tt.withImage))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGetAllDetections_Pagination(t *testing.T) {
	app, svc := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/detections?page=3&limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, svc.gotPage)
	assert.Equal(t, 10, svc.gotLimit)
}

func TestGetDetectionByID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/detections/01HDET", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got detection.DetectionResponse
	decode(t, resp, &got)
	assert.Equal(t, []string{"can"}, got.DetectedObjects)
	assert.NotNil(t, got.Detections)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/detections/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecentAndStatisticsAreNotTreatedAsIDs(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/detections/recent", nil))
	require.NoError(t, err)
	var recent []detection.DetectionResponse
	decode(t, resp, &recent)
	assert.Len(t, recent, 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/detections/statistics", nil))
	require.NoError(t, err)
	var stats detection.StatisticsResponse
	decode(t, resp, &stats)
	assert.Equal(t, 4, stats.TotalDetections)
	assert.Equal(t, map[string]int{"bottle": 4}, stats.TrashCounts)
}

func TestUpdateDetection(t *testing.T) {
	app, svc := newTestApp(t)

	req := httptest.NewRequest("PATCH", "/api/v1/detections/01HDET", strings.NewReader(`{"processed":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.processed)
	assert.True(t, *svc.processed)

	req = httptest.NewRequest("PATCH", "/api/v1/detections/01HDET", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDetection_RequiresOperator(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/detections/01HDET", nil), int(time.Second.Milliseconds()))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStream_RequiresUpgrade(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/detections/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestStream_EnforcesFrameLimit(t *testing.T) {
	app, svc := newTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/detections/stream", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteMessage(gorillaws.BinaryMessage, bytes.Repeat([]byte{1}, 32)))
	var result detection.StreamResult
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, 4, result.Width)

	require.NoError(t, conn.WriteMessage(gorillaws.BinaryMessage, bytes.Repeat([]byte{1}, 4096)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "oversized frame closes the stream")
	assert.Equal(t, int32(1), svc.frames.Load())
}
