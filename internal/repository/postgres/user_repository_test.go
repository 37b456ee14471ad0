package postgres

import (
	"agriVest/domain"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	user := &domain.User{Username: "ada", Email: "ada@farm.test", Password: "hash", Role: domain.RoleFarmer}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, uint(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).
			AddRow(7, "ada", "ada@farm.test", domain.RoleFarmer))

	user, err := repo.FindByUsername(context.Background(), "ada")
	require.NoError(t, err)

	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, domain.RoleFarmer, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "user not found")
}

func TestUserRepositoryFindAllFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	verified := true
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = \$1 AND is_verified = \$2 AND .*username ILIKE .* ORDER BY username`).
		WithArgs(domain.RoleInvestor, true, "%ad%", "%ad%", "%ad%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "ada").AddRow(2, "bradley"))

	users, err := repo.FindAll(context.Background(), domain.UserFilter{Role: domain.RoleInvestor, IsVerified: &verified, Search: "ad"})
	require.NoError(t, err)

	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"})

	err := repo.Create(context.Background(), &domain.User{Username: "ada", Email: "ada@farm.test", Role: domain.RoleFarmer})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET .* WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{ID: 7, Email: "ada@farm.test", Role: domain.RoleFarmer, IsStaff: true}
	require.NoError(t, repo.Update(context.Background(), user))

	assert.False(t, user.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateMissingAndDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Update(context.Background(), &domain.User{ID: 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Update(context.Background(), &domain.User{ID: 7, Email: "taken@farm.test"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}
