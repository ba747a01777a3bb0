package taskRepository

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
		Tasks:    &tasksRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Tasks interface {
		GetAllTasks(ctx context.Context) ([]entity.CleanupTask, error)
		GetTasksByStatus(ctx context.Context, status entity.TaskStatus) ([]entity.CleanupTask, error)
		GetTaskByID(ctx context.Context, id string) (entity.CleanupTask, error)
		UpdateTask(ctx context.Context, id string, assignedTo, notes string) error
		UpdateStatus(ctx context.Context, id string, status entity.TaskStatus, completedAt *time.Time) error
		DeleteTask(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type tasksRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
