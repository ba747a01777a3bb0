package cooperationRepository

import (
	"context"
	"database/sql"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/cooperation"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type CooperationDB struct {
	ID                 sql.NullString `db:"id"`
	CompanyName        sql.NullString `db:"company_name"`
	ContactPerson      sql.NullString `db:"contact_person"`
	Email              sql.NullString `db:"email"`
	Phone              sql.NullString `db:"phone"`
	CooperationType    sql.NullString `db:"cooperation_type"`
	CompanySize        sql.NullString `db:"company_size"`
	CooperationDetails sql.NullString `db:"cooperation_details"`
	Status             sql.NullString `db:"status"`
	CreatedAt          time.Time      `db:"created_at"`
}

func (r *cooperationRepository) CreateCooperationRequest(ctx context.Context, req entity.CooperationRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":                  req.ID,
		"company_name":        req.CompanyName,
		"contact_person":      req.ContactPerson,
		"email":               req.Email,
		"phone":               sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		"cooperation_type":    req.CooperationType,
		"company_size":        sql.NullString{String: req.CompanySize, Valid: req.CompanySize != ""},
		"cooperation_details": req.CooperationDetails,
		"status":              string(req.Status),
		"created_at":          req.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCooperationRequest, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCooperationRequest")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating cooperation request")
		return err
	}

	return nil
}

// GetCooperationRequests lists requests newest first. An empty status lists all.
func (r *cooperationRepository) GetCooperationRequests(ctx context.Context, status string) ([]entity.CooperationRequest, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetCooperationRequests, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []CooperationDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCooperationRequests execution err")
		return nil, err
	}

	requests := make([]entity.CooperationRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, entity.CooperationRequest{
			ID:                 row.ID.String,
			CompanyName:        row.CompanyName.String,
			ContactPerson:      row.ContactPerson.String,
			Email:              row.Email.String,
			Phone:              row.Phone.String,
			CooperationType:    row.CooperationType.String,
			CompanySize:        row.CompanySize.String,
			CooperationDetails: row.CooperationDetails.String,
			Status:             entity.CooperationStatus(row.Status.String),
			CreatedAt:          row.CreatedAt,
		})
	}
	return requests, nil
}

func (r *cooperationRepository) UpdateStatus(ctx context.Context, id string, status entity.CooperationStatus) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryUpdateCooperationStatus, map[string]interface{}{
		"id":     id,
		"status": string(status),
	})
	if err != nil {
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateStatus execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return cooperation.ErrCooperationNotFound
	}

	return nil
}
