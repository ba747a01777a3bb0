package categoryRepository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TheNopenator/EcoVision/internal/api/category"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

type CategoryDB struct {
	ID          sql.NullString `db:"id"`
	Name        sql.NullString `db:"name"`
	Color       sql.NullString `db:"color"`
	Description sql.NullString `db:"description"`
}

func (r *categoriesRepository) CreateCategory(ctx context.Context, c entity.TrashCategory) error {
	return r.write(ctx, queryCreateCategory, c, "CreateCategory", false)
}

func (r *categoriesRepository) UpdateCategory(ctx context.Context, c entity.TrashCategory) error {
	return r.write(ctx, queryUpdateCategory, c, "UpdateCategory", true)
}

func (r *categoriesRepository) write(ctx context.Context, rawQuery string, c entity.TrashCategory, op string, mustExist bool) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":          c.ID,
		"name":        c.Name,
		"color":       c.Color,
		"description": c.Description,
	}

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
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return category.ErrCategoryExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error in " + op)
		return err
	}

	if mustExist {
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return category.ErrCategoryNotFound
		}
	}

	return nil
}

func (r *categoriesRepository) GetCategoryByID(ctx context.Context, id string) (entity.TrashCategory, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row CategoryDB

	query, args, err := sqlx.Named(queryGetCategoryByID, map[string]interface{}{"id": id})
	if err != nil {
		return entity.TrashCategory{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetCategoryByID no rows found")
			return entity.TrashCategory{}, category.ErrCategoryNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCategoryByID execution err")
		return entity.TrashCategory{}, err
	}

	return r.makeCategory(row), nil
}

func (r *categoriesRepository) GetAllCategories(ctx context.Context) ([]entity.TrashCategory, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []CategoryDB
	if err := r.q.SelectContext(ctx, &rows, queryGetAllCategories); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllCategories execution err")
		return nil, err
	}

	categories := make([]entity.TrashCategory, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, r.makeCategory(row))
	}
	return categories, nil
}

func (r *categoriesRepository) DeleteCategory(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteCategory, map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCategory execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}

func (r *categoriesRepository) makeCategory(row CategoryDB) entity.TrashCategory {
	return entity.TrashCategory{
		ID:          row.ID.String,
		Name:        row.Name.String,
		Color:       row.Color.String,
		Description: row.Description.String,
	}
}
