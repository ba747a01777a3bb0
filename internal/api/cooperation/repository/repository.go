package cooperationRepository

import (
	"context"

	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
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
		Cooperation: &cooperationRepository{q: sqlExecutor, log: r.log},
		Commit:      commitFunc,
		Rollback:    rollbackFunc,
	}, nil
}

type Client struct {
	Cooperation interface {
		CreateCooperationRequest(ctx context.Context, req entity.CooperationRequest) error
		GetCooperationRequests(ctx context.Context, status string) ([]entity.CooperationRequest, error)
		UpdateStatus(ctx context.Context, id string, status entity.CooperationStatus) error
	}

	Commit   func() error
	Rollback func() error
}

type cooperationRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
