package categoryRepository

import (
	"context"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TheNopenator/EcoVision/internal/api/category"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return New(sqlx.NewDb(mockDB, "postgres"), logger), mock
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trash_categories")).
		WithArgs("c1", "Glass", "#54A0FF", "").
		WillReturnError(&pq.Error{Code: "23505"})

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	err = client.Categories.CreateCategory(context.Background(), entity.TrashCategory{ID: "c1", Name: "Glass", Color: "#54A0FF"})
	assert.ErrorIs(t, err, category.ErrCategoryExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllCategories(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "description"}).
			AddRow("c1", "Can", "#4ECDC4", nil).
			AddRow("c2", "Glass", "#54A0FF", "jars"))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	got, err := client.Categories.GetAllCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Description)
	assert.Equal(t, "jars", got[1].Description)
}

func TestUpdateAndDeleteCategory_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trash_categories")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trash_categories")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	err = client.Categories.UpdateCategory(context.Background(), entity.TrashCategory{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)

	err = client.Categories.DeleteCategory(context.Background(), "missing")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategoryByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trash_categories")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "description"}))

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	_, err = client.Categories.GetCategoryByID(context.Background(), "missing")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}
