package taskRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/task"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// TaskDB is a cleanup task row joined with its detection.
type TaskDB struct {
	ID          sql.NullString `db:"id"`
	DetectionID sql.NullString `db:"detection_id"`
	Status      sql.NullString `db:"status"`
	AssignedTo  sql.NullString `db:"assigned_to"`
	CreatedAt   time.Time      `db:"created_at"`
	CompletedAt sql.NullTime   `db:"completed_at"`
	Notes       sql.NullString `db:"notes"`

	ImageURL          sql.NullString  `db:"detection_image_url"`
	AnnotatedImageURL sql.NullString  `db:"detection_annotated_image_url"`
	DetectedObjects   pq.StringArray  `db:"detection_detected_objects"`
	ConfidenceScores  pq.Float64Array `db:"detection_confidence_scores"`
	Boxes             []byte          `db:"detection_boxes"`
	Location          []byte          `db:"detection_location"`
	DetectedAt        time.Time       `db:"detection_detected_at"`
	Processed         bool            `db:"detection_processed"`
}

func (r *tasksRepository) GetAllTasks(ctx context.Context) ([]entity.CleanupTask, error) {
	return r.selectTasks(ctx, queryGetAllTasks, map[string]interface{}{}, "GetAllTasks")
}

func (r *tasksRepository) GetTasksByStatus(ctx context.Context, status entity.TaskStatus) ([]entity.CleanupTask, error) {
	return r.selectTasks(ctx, queryGetTasksByStatus, map[string]interface{}{"status": string(status)}, "GetTasksByStatus")
}

func (r *tasksRepository) selectTasks(ctx context.Context, rawQuery string, argsKV map[string]interface{}, op string) ([]entity.CleanupTask, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(rawQuery, argsKV)
	if err != nil {
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []TaskDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return nil, err
	}

	tasks := make([]entity.CleanupTask, 0, len(rows))
	for _, row := range rows {
		t, err := r.makeTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *tasksRepository) GetTaskByID(ctx context.Context, id string) (entity.CleanupTask, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetTaskByID, map[string]interface{}{"id": id})
	if err != nil {
		return entity.CleanupTask{}, err
	}
	query = r.q.Rebind(query)

	var row TaskDB
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetTaskByID no rows found")
			return entity.CleanupTask{}, task.ErrTaskNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTaskByID execution err")
		return entity.CleanupTask{}, err
	}

	return r.makeTask(row)
}

func (r *tasksRepository) UpdateTask(ctx context.Context, id string, assignedTo, notes string) error {
	return r.execAffectingOne(ctx, queryUpdateTask, map[string]interface{}{
		"id":          id,
		"assigned_to": sql.NullString{String: assignedTo, Valid: assignedTo != ""},
		"notes":       sql.NullString{String: notes, Valid: notes != ""},
	}, "UpdateTask")
}

func (r *tasksRepository) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus, completedAt *time.Time) error {
	var completed sql.NullTime
	if completedAt != nil {
		completed = sql.NullTime{Time: *completedAt, Valid: true}
	}

	return r.execAffectingOne(ctx, queryUpdateStatus, map[string]interface{}{
		"id":           id,
		"status":       string(status),
		"completed_at": completed,
	}, "UpdateStatus")
}

func (r *tasksRepository) DeleteTask(ctx context.Context, id string) error {
	return r.execAffectingOne(ctx, queryDeleteTask, map[string]interface{}{"id": id}, "DeleteTask")
}

func (r *tasksRepository) execAffectingOne(ctx context.Context, rawQuery string, argsKV map[string]interface{}, op string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(rawQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for " + op)
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

func (r *tasksRepository) makeTask(row TaskDB) (entity.CleanupTask, error) {
	t := entity.CleanupTask{
		ID:          row.ID.String,
		DetectionID: row.DetectionID.String,
		Status:      entity.TaskStatus(row.Status.String),
		AssignedTo:  row.AssignedTo.String,
		CreatedAt:   row.CreatedAt,
		Notes:       row.Notes.String,
		Detection: entity.TrashDetection{
			ID:                row.DetectionID.String,
			ImageURL:          row.ImageURL.String,
			AnnotatedImageURL: row.AnnotatedImageURL.String,
			DetectedObjects:   []string(row.DetectedObjects),
			ConfidenceScores:  []float64(row.ConfidenceScores),
			DetectedAt:        row.DetectedAt,
			Processed:         row.Processed,
		},
	}
	if row.CompletedAt.Valid {
		completed := row.CompletedAt.Time
		t.CompletedAt = &completed
	}

	if len(row.Boxes) > 0 {
		if err := jsoniter.Unmarshal(row.Boxes, &t.Detection.Boxes); err != nil {
			return entity.CleanupTask{}, err
		}
	}
	if len(row.Location) > 0 {
		if err := jsoniter.Unmarshal(row.Location, &t.Detection.Location); err != nil {
			return entity.CleanupTask{}, err
		}
	}

	return t, nil
}
