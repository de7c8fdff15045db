package postgres

import (
	"context"
	"testing"
	"time"

	"coopweigh/internal/identity/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*WorkerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWorkerRepository(db), mock
}

func profileRows(cooperativeID any, cooperativeName any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "cpf", "password_hash", "cooperative_id", "updated_at", "name",
	}).AddRow(int64(1), "Maria", "maria@example.com", "12345678901", []byte("hash"), cooperativeID, time.Now(), cooperativeName)
}

func TestWorkerRepository_GetByCPF(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT(?s).+FROM workers w\s+LEFT JOIN cooperatives c ON c\.id = w\.cooperative_id\s+WHERE w\.cpf = \$1`).
		WithArgs("12345678901").
		WillReturnRows(profileRows(int64(7), "Coop Verde"))

	profile, err := repo.GetByCPF(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	require.NotNil(t, profile.CooperativeID)
	assert.Equal(t, int64(7), *profile.CooperativeID)
	require.NotNil(t, profile.CooperativeName)
	assert.Equal(t, "Coop Verde", *profile.CooperativeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT(?s).+WHERE w\.id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrWorkerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepository_GetByID_NoCooperative(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT(?s).+WHERE w\.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(profileRows(nil, nil))

	profile, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, profile.CooperativeID)
	assert.Nil(t, profile.CooperativeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepository_Update(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE workers SET updated_at = NOW\(\), name = \$2, email = \$3 WHERE id = \$1`).
		WithArgs(int64(1), "Maria Silva", "maria.silva@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT(?s).+WHERE w\.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(profileRows(nil, nil))

	name := "Maria Silva"
	email := "maria.silva@example.com"
	profile, err := repo.Update(context.Background(), 1, &name, &email, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE workers SET updated_at = NOW\(\), name = \$2 WHERE id = \$1`).
		WithArgs(int64(42), "Ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	name := "Ghost"
	_, err := repo.Update(context.Background(), 42, &name, nil, nil)
	assert.ErrorIs(t, err, domain.ErrWorkerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepository_Update_Empty(t *testing.T) {
	repo, _ := newMock(t)

	_, err := repo.Update(context.Background(), 1, nil, nil, nil)
	assert.Error(t, err)
}

func TestWorkerRepository_ListNamesByIDs(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name FROM workers WHERE id IN \(\$1, \$2\)`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Maria").
			AddRow(int64(2), "Joao"))

	names, err := repo.ListNamesByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Maria", 2: "Joao"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepository_ListNamesByIDs_Empty(t *testing.T) {
	repo, _ := newMock(t)

	names, err := repo.ListNamesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}
