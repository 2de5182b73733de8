package repository_test

import (
	"context"
	"testing"
	"time"

	"workplace/internal/model"
	"workplace/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var userColumns = []string{"id", "email", "password_hash", "role", "created_at"}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = `).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID.String(), "manager@example.com", "hash", "Manager", time.Now()))

	// Act
	user, err := userRepo.GetByID(context.Background(), userID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, model.RoleManager, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = `).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := userRepo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	email := "test@example.com"

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = `).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID.String(), email, "hashed_password", "Member", time.Now()))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, model.RoleMember, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = `).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := userRepo.FindByEmail(context.Background(), "nobody@example.com")

	// A missing user is not an error
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = `).
		WillReturnError(assert.AnError)

	user, err := userRepo.FindByEmail(context.Background(), "test@example.com")

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_DuplicateEmail(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := userRepo.Update(context.Background(), &model.User{
		ID:    uuid.New(),
		Email: "taken@example.com",
		Role:  model.RoleMember,
	})

	assert.ErrorIs(t, err, repository.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_StillOwnsTasks(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := userRepo.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrUserHasTasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := userRepo.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
