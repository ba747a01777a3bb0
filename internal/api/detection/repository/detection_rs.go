package detectionRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/detection"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type DetectionDB struct {
	ID                sql.NullString  `db:"id"`
	ImageURL          sql.NullString  `db:"image_url"`
	AnnotatedImageURL sql.NullString  `db:"annotated_image_url"`
	DetectedObjects   pq.StringArray  `db:"detected_objects"`
	ConfidenceScores  pq.Float64Array `db:"confidence_scores"`
	Boxes             []byte          `db:"boxes"`
	Location          []byte          `db:"location"`
	DetectedAt        time.Time       `db:"detected_at"`
	Processed         bool            `db:"processed"`
}

type objectCountDB struct {
	Label string `db:"label"`
	Total int    `db:"total"`
}

func (r *detectionsRepository) CreateDetection(ctx context.Context, d entity.TrashDetection) error {
	requestID := contextPkg.GetRequestID(ctx)

	boxes, err := jsoniter.Marshal(d.Boxes)
	if err != nil {
		return err
	}
	location, err := jsoniter.Marshal(d.Location)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"id":                  d.ID,
		"image_url":           d.ImageURL,
		"annotated_image_url": sql.NullString{String: d.AnnotatedImageURL, Valid: d.AnnotatedImageURL != ""},
		"detected_objects":    pq.StringArray(append([]string{}, d.DetectedObjects...)),
		"confidence_scores":   pq.Float64Array(append([]float64{}, d.ConfidenceScores...)),
		"boxes":               string(boxes),
		"location":            string(location),
		"detected_at":         d.DetectedAt,
		"processed":           d.Processed,
	}

	query, args, err := sqlx.Named(queryCreateDetection, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateDetection")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating detection")
		return err
	}

	return nil
}

func (r *detectionsRepository) GetDetectionByID(ctx context.Context, id string) (entity.TrashDetection, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row DetectionDB

	query, args, err := sqlx.Named(queryGetDetectionByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionByID named query preparation err")
		return entity.TrashDetection{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetDetectionByID no rows found")
			return entity.TrashDetection{}, detection.ErrDetectionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionByID execution err")
		return entity.TrashDetection{}, err
	}

	return r.makeDetection(row), nil
}

func (r *detectionsRepository) GetAllDetections(ctx context.Context, limit, offset int) ([]entity.TrashDetection, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	total, err := r.CountDetections(ctx, nil)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetAllDetections, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllDetections named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []DetectionDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllDetections execution err")
		return nil, 0, err
	}

	return r.makeDetections(rows), total, nil
}

func (r *detectionsRepository) GetDetectionsSince(ctx context.Context, since time.Time, limit int) ([]entity.TrashDetection, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetDetectionsSince, map[string]interface{}{
		"since": since,
		"limit": limit,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionsSince named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []DetectionDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionsSince execution err")
		return nil, err
	}

	return r.makeDetections(rows), nil
}

func (r *detectionsRepository) UpdateProcessed(ctx context.Context, id string, processed bool) error {
	return r.execAffectingOne(ctx, queryUpdateProcessed, map[string]interface{}{
		"id":        id,
		"processed": processed,
	}, "UpdateProcessed")
}

func (r *detectionsRepository) DeleteDetection(ctx context.Context, id string) error {
	return r.execAffectingOne(ctx, queryDeleteDetection, map[string]interface{}{"id": id}, "DeleteDetection")
}

// CountDetections counts every detection, or only those at or after since.
func (r *detectionsRepository) CountDetections(ctx context.Context, since *time.Time) (int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	rawQuery, argsKV := queryCountAllDetections, map[string]interface{}{}
	if since != nil {
		rawQuery, argsKV = queryCountDetectionsSince, map[string]interface{}{"since": *since}
	}

	query, args, err := sqlx.Named(rawQuery, argsKV)
	if err != nil {
		return 0, err
	}
	query = r.q.Rebind(query)

	var total int
	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountDetections execution err")
		return 0, err
	}

	return total, nil
}

func (r *detectionsRepository) CountObjects(ctx context.Context) (map[string]int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []objectCountDB
	if err := r.q.SelectContext(ctx, &rows, queryCountObjects); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountObjects execution err")
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Total
	}
	return counts, nil
}

func (r *detectionsRepository) execAffectingOne(ctx context.Context, rawQuery string, argsKV map[string]interface{}, op string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(rawQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
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
		return detection.ErrDetectionNotFound
	}

	return nil
}

func (r *detectionsRepository) makeDetections(rows []DetectionDB) []entity.TrashDetection {
	detections := make([]entity.TrashDetection, 0, len(rows))
	for _, row := range rows {
		detections = append(detections, r.makeDetection(row))
	}
	return detections
}

func (r *detectionsRepository) makeDetection(row DetectionDB) entity.TrashDetection {
	d := entity.TrashDetection{
		ID:                row.ID.String,
		ImageURL:          row.ImageURL.String,
		AnnotatedImageURL: row.AnnotatedImageURL.String,
		DetectedObjects:   []string(row.DetectedObjects),
		ConfidenceScores:  []float64(row.ConfidenceScores),
		DetectedAt:        row.DetectedAt,
		Processed:         row.Processed,
	}

	if len(row.Boxes) > 0 {
		if err := jsoniter.Unmarshal(row.Boxes, &d.Boxes); err != nil {
			r.log.WithFields(logrus.Fields{"id": d.ID, "error": err.Error()}).Warn("Ignoring malformed boxes column")
		}
	}
	if len(row.Location) > 0 {
		if err := jsoniter.Unmarshal(row.Location, &d.Location); err != nil {
			r.log.WithFields(logrus.Fields{"id": d.ID, "error": err.Error()}).Warn("Ignoring malformed location column")
		}
	}

	return d
}
