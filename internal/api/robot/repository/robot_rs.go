package robotRepository

import (
	"context"
	"database/sql"
	"time"

	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type RobotRequestDB struct {
	ID          sql.NullString `db:"id"`
	RobotID     sql.NullString `db:"robot_id"`
	Status      sql.NullString `db:"status"`
	TrashTypes  pq.StringArray `db:"trash_types"`
	Priority    sql.NullString `db:"priority"`
	Location    sql.NullString `db:"location"`
	Notes       sql.NullString `db:"notes"`
	RequestTime time.Time      `db:"request_time"`
	ETAMinutes  sql.NullInt64  `db:"eta_minutes"`
}

func (r *requestsRepository) CreateRobotRequest(ctx context.Context, req entity.RobotRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":           req.ID,
		"robot_id":     req.RobotID,
		"status":       req.Status,
		"trash_types":  pq.StringArray(append([]string{}, req.TrashTypes...)),
		"priority":     req.Priority,
		"location":     req.Location,
		"notes":        sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		"request_time": req.RequestTime,
		"eta_minutes":  req.ETAMinutes,
	}

	query, args, err := sqlx.Named(queryCreateRobotRequest, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRobotRequest")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"robot_id":   req.RobotID,
			"error":      err.Error(),
		}).Error("Database error when creating robot request")
		return err
	}

	return nil
}

func (r *requestsRepository) GetRobotRequests(ctx context.Context, limit int) ([]entity.RobotRequest, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetRobotRequests, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []RobotRequestDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRobotRequests execution err")
		return nil, err
	}

	requests := make([]entity.RobotRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, entity.RobotRequest{
			ID:          row.ID.String,
			RobotID:     row.RobotID.String,
			Status:      row.Status.String,
			TrashTypes:  []string(row.TrashTypes),
			Priority:    row.Priority.String,
			Location:    row.Location.String,
			Notes:       row.Notes.String,
			RequestTime: row.RequestTime,
			ETAMinutes:  int(row.ETAMinutes.Int64),
		})
	}
	return requests, nil
}
