package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/audiohive/audiohive-backend/pkg/db"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	"github.com/audiohive/audiohive-backend/pkg/listing"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  active INTEGER NOT NULL DEFAULT 1,
  password_changed_at DATETIME,
  password_reset_token TEXT,
  password_reset_expires DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniqueEmail := `
CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`

	require.NoError(t, conn.Exec(users).Error)
	require.NoError(t, conn.Exec(uniqueEmail).Error)
	require.NoError(t, conn.Exec(`DELETE FROM users`).Error)
	return conn
}

func createUser(t *testing.T, repo *Repository, email string, role enums.UserRole) uuid.UUID {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$fake",
		Role:         role,
	})
	require.NoError(t, err)
	return user.ID
}

func TestCreateAndFindByEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	id := createUser(t, repo, "alice@example.com", enums.UserRoleUser)

	found, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.True(t, found.Active)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	createUser(t, repo, "alice@example.com", enums.UserRoleUser)

	_, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Second Alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$fake",
		Role:         enums.UserRoleUser,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "uq_users_email"))
}

func TestDeactivateHidesUserFromReads(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := createUser(t, repo, "alice@example.com", enums.UserRoleUser)
	require.NoError(t, repo.Deactivate(ctx, id))

	_, err := repo.FindByID(ctx, id)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.FindByEmail(ctx, "alice@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// The row itself survives soft-deactivation.
	var count int64
	require.NoError(t, repo.db.Table("users").Where("id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindByResetTokenHonorsExpiry(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := createUser(t, repo, "alice@example.com", enums.UserRoleUser)
	now := time.Now().UTC()
	require.NoError(t, repo.SetResetToken(ctx, id, "digest-abc", now.Add(10*time.Minute)))

	found, err := repo.FindByResetToken(ctx, "digest-abc", now)
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = repo.FindByResetToken(ctx, "digest-abc", now.Add(11*time.Minute))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.FindByResetToken(ctx, "other-digest", now)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSetPasswordClearsResetToken(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := createUser(t, repo, "alice@example.com", enums.UserRoleUser)
	now := time.Now().UTC()
	require.NoError(t, repo.SetResetToken(ctx, id, "digest-abc", now.Add(10*time.Minute)))
	require.NoError(t, repo.SetPassword(ctx, id, "$argon2id$fresh", now))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "$argon2id$fresh", found.PasswordHash)
	assert.Nil(t, found.PasswordResetToken)
	assert.Nil(t, found.PasswordResetExpires)
	require.NotNil(t, found.PasswordChangedAt)
}

func TestListFiltersByRole(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	createUser(t, repo, "admin@example.com", enums.UserRoleAdmin)
	createUser(t, repo, "alice@example.com", enums.UserRoleUser)
	bobID := createUser(t, repo, "bob@example.com", enums.UserRoleUser)
	require.NoError(t, repo.Deactivate(ctx, bobID))

	list, err := repo.List(ctx, listing.Params{
		Page:    1,
		Limit:   listing.DefaultLimit,
		Filters: []listing.Filter{{Column: "role", Op: "=", Value: "user"}},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice@example.com", list[0].Email)
}

func TestDeleteMissingUser(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	err := repo.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
