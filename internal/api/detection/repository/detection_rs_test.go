package detectionRepository

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TheNopenator/EcoVision/internal/api/detection"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detectionColumns = []string{
	"id", "image_url", "annotated_image_url", "detected_objects", "confidence_scores",
	"boxes", "location", "detected_at", "processed",
}

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return New(sqlx.NewDb(mockDB, "postgres"), logger), mock
}

func TestCreateDetectionWithTask(t *testing.T) {
	repo, mock := newMockRepository(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trash_detections")).
		WithArgs("01HDET", "/media/uploads/a.jpg", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			`[{"label":"bottle","confidence":0.9,"left":80,"top":70,"width":40,"height":60,"color":"#FF6B6B"}]`,
			`{"lat":-6.2,"lng":106.8,"address":"Jakarta"}`, now, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cleanup_tasks")).
		WithArgs("01HTASK", "01HDET", "pending", sqlmock.AnyArg(), now, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	client, err := repo.NewClient(true)
	require.NoError(t, err)
	defer client.Rollback()

	err = client.Detections.CreateDetection(ctx, entity.TrashDetection{
		ID:               "01HDET",
		ImageURL:         "/media/uploads/a.jpg",
		DetectedObjects:  []string{"bottle"},
		ConfidenceScores: []float64{0.9},
		Boxes: []entity.DetectionBox{
			{Label: "bottle", Confidence: 0.9, Left: 80, Top: 70, Width: 40, Height: 60, Color: "#FF6B6B"},
		},
		Location:   entity.Location{Lat: -6.2, Lng: 106.8, Address: "Jakarta"},
		DetectedAt: now,
	})
	require.NoError(t, err)

	err = client.Tasks.CreateTask(ctx, entity.CleanupTask{
		ID:          "01HTASK",
		DetectionID: "01HDET",
		Status:      entity.TaskStatusPending,
		CreatedAt:   now,
	})
	require.NoError(t, err)

	require.NoError(t, client.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDetectionByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM trash_detections")).
		WithArgs("01HDET").
		WillReturnRows(sqlmock.NewRows(detectionColumns).AddRow(
			"01HDET", "/media/uploads/a.jpg", nil,
			[]byte("{bottle,can}"), []byte("{0.9,0.7}"),
			[]byte(`[{"label":"bottle","confidence":0.9,"left":1,"top":2,"width":3,"height":4,"color":"#00FF00"}]`),
			[]byte(`{"lat":1.5,"lng":2.5,"address":"Park"}`),
			now, true,
		))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	got, err := client.Detections.GetDetectionByID(context.Background(), "01HDET")
	require.NoError(t, err)

	assert.Equal(t, "01HDET", got.ID)
	assert.Empty(t, got.AnnotatedImageURL)
	assert.Equal(t, []string{"bottle", "can"}, got.DetectedObjects)
	assert.Equal(t, []float64{0.9, 0.7}, got.ConfidenceScores)
	require.Len(t, got.Boxes, 1)
	assert.Equal(t, 3, got.Boxes[0].Width)
	assert.Equal(t, "Park", got.Location.Address)
	assert.True(t, got.Processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDetectionByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trash_detections")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(detectionColumns))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	_, err = client.Detections.GetDetectionByID(context.Background(), "missing")
	assert.ErrorIs(t, err, detection.ErrDetectionNotFound)
}

func TestUpdateProcessed_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trash_detections")).
		WithArgs(true, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	err = client.Detections.UpdateProcessed(context.Background(), "missing", true)
	assert.ErrorIs(t, err, detection.ErrDetectionNotFound)
}

func TestGetAllDetections(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY detected_at DESC")).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(detectionColumns).
			AddRow("b", "/media/b.jpg", nil, []byte("{}"), []byte("{}"), []byte("[]"), []byte("{}"), now, false).
			AddRow("a", "/media/a.jpg", nil, []byte("{can}"), []byte("{0.6}"), []byte("[]"), []byte("{}"), now.Add(-time.Hour), false))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	got, total, err := client.Detections.GetAllDetections(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Empty(t, got[0].DetectedObjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountDetectionsAndObjects(t *testing.T) {
	repo, mock := newMockRepository(t)
	since := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE detected_at >=")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("unnest(detected_objects)")).
		WillReturnRows(sqlmock.NewRows([]string{"label", "total"}).AddRow("bottle", 5).AddRow("can", 2))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	today, err := client.Detections.CountDetections(context.Background(), &since)
	require.NoError(t, err)
	assert.Equal(t, 3, today)

	counts, err := client.Detections.CountObjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"bottle": 5, "can": 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
