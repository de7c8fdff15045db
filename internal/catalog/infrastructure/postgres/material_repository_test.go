package postgres

import (
	"context"
	"testing"

	"coopweigh/internal/catalog/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*MaterialRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMaterialRepository(db), mock
}

func TestMaterialRepository_List(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name FROM materials ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(2), "Aluminio").
			AddRow(int64(1), "Papelao"))

	materials, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Equal(t, "Aluminio", materials[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name FROM materials WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(3), "Vidro"))

	material, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Vidro", material.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepository_GetByName_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name FROM materials WHERE LOWER\(name\) = LOWER\(\$1\)`).
		WithArgs("isopor").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.GetByName(context.Background(), "isopor")
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
