package detectionRepository

import (
	"context"
	"database/sql"

	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// CreateTask inserts the cleanup task spawned by a new detection. It shares
// the detection's transaction.
func (r *tasksRepository) CreateTask(ctx context.Context, task entity.CleanupTask) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":           task.ID,
		"detection_id": task.DetectionID,
		"status":       string(task.Status),
		"assigned_to":  sql.NullString{String: task.AssignedTo, Valid: task.AssignedTo != ""},
		"created_at":   task.CreatedAt,
		"notes":        sql.NullString{String: task.Notes, Valid: task.Notes != ""},
	}

	query, args, err := sqlx.Named(queryCreateTask, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateTask")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"detection_id": task.DetectionID,
			"error":        err.Error(),
		}).Error("Database error when creating cleanup task")
		return err
	}

	return nil
}
