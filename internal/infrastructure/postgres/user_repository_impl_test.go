package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

func newUserRepoMock(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("John", "john@company.com", "hash", entity.RoleEmployee, "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("uuid-1", now, now))

	u := &entity.User{Name: "John", Email: "john@company.com", PasswordHash: "hash", Role: entity.RoleEmployee}
	err := repo.Create(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, "uuid-1", u.ID)
	assert.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	now := time.Now()

	cols := []string{"id", "name", "email", "password_hash", "role", "avatar_url", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, avatar_url, created_at, updated_at\s+FROM users`).
		WithArgs("john@company.com").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("uuid-1", "John", "john@company.com", "hash", entity.RoleEmployee, "", now, now))

	u, err := repo.GetByEmail(context.Background(), "john@company.com")

	require.NoError(t, err)
	assert.Equal(t, "uuid-1", u.ID)
	assert.Equal(t, entity.RoleEmployee, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, avatar_url, created_at, updated_at\s+FROM users`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.GetByID(context.Background(), "missing")

	assert.Nil(t, u)
	assert.ErrorIs(t, err, errNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("John", "john@company.com", "hash", entity.RoleEmployee, "", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &entity.User{
		ID: "missing", Name: "John", Email: "john@company.com", PasswordHash: "hash", Role: entity.RoleEmployee,
	})

	assert.ErrorIs(t, err, errNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("uuid-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "uuid-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountByRole(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs(entity.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := repo.CountByRole(context.Background(), entity.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
