package detectionRepository

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Detections: &detectionsRepository{q: sqlExecutor, log: r.log},
		Tasks:      &tasksRepository{q: sqlExecutor, log: r.log},
		Commit:     commitFunc,
		Rollback:   rollbackFunc,
	}, nil
}

type Client struct {
	Detections interface {
		CreateDetection(ctx context.Context, detection entity.TrashDetection) error
		GetDetectionByID(ctx context.Context, id string) (entity.TrashDetection, error)
		GetAllDetections(ctx context.Context, limit, offset int) ([]entity.TrashDetection, int, error)
		GetDetectionsSince(ctx context.Context, since time.Time, limit int) ([]entity.TrashDetection, error)
		UpdateProcessed(ctx context.Context, id string, processed bool) error
		DeleteDetection(ctx context.Context, id string) error
		CountDetections(ctx context.Context, since *time.Time) (int, error)
		CountObjects(ctx context.Context) (map[string]int, error)
	}

	Tasks interface {
		CreateTask(ctx context.Context, task entity.CleanupTask) error
	}

	Commit   func() error
	Rollback func() error
}

type detectionsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type tasksRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
