package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE admins (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT,
			password_hash TEXT,
			is_active INTEGER DEFAULT 1,
			last_login_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	return db
}

func testService(t *testing.T) *Service {
	return NewService(setupTestDB(t), []byte("test-secret"), time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	service := testService(t)

	resp, err := service.Register(RegisterRequest{
		Username: "secadmin",
		Email:    "sec@example.com",
		FullName: "Security Admin",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.Admin.ID)
	assert.True(t, resp.Admin.IsActive)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	login, err := service.Login(LoginRequest{Username: "secadmin", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, resp.Admin.ID, login.Admin.ID)
	assert.NotNil(t, login.Admin.LastLoginAt)
}

func TestRegisterDuplicate(t *testing.T) {
	service := testService(t)

	req := RegisterRequest{
		Username: "secadmin",
		Email:    "sec@example.com",
		Password: "correct-horse-battery",
	}
	_, err := service.Register(req)
	require.NoError(t, err)

	_, err = service.Register(req)
	assert.ErrorIs(t, err, ErrAdminExists)

	// Same email under a different username is still a duplicate
	req.Username = "other"
	_, err = service.Register(req)
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestLoginWrongPassword(t *testing.T) {
	service := testService(t)

	_, err := service.Register(RegisterRequest{
		Username: "secadmin",
		Email:    "sec@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = service.Login(LoginRequest{Username: "secadmin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestLoginCaseInsensitiveUsername(t *testing.T) {
	service := testService(t)

	_, err := service.Register(RegisterRequest{
		Username: "SecAdmin",
		Email:    "sec@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = service.Login(LoginRequest{Username: "secadmin", Password: "correct-horse-battery"})
	assert.NoError(t, err)
}

func TestLoginDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db, []byte("test-secret"), time.Hour)

	resp, err := service.Register(RegisterRequest{
		Username: "secadmin",
		Email:    "sec@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Admin{}).
		Where("id = ?", resp.Admin.ID).
		Update("is_active", false).Error)

	_, err = service.Login(LoginRequest{Username: "secadmin", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	// An already-issued token stops working too
	_, err = service.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestValidateToken(t *testing.T) {
	service := testService(t)

	resp, err := service.Register(RegisterRequest{
		Username: "secadmin",
		Email:    "sec@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	admin, err := service.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Admin.ID, admin.ID)

	_, err = service.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret is rejected
	other := NewService(setupTestDB(t), []byte("other-secret"), time.Hour)
	otherResp, err := other.Register(RegisterRequest{
		Username: "secadmin",
		Email:    "sec@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = service.ValidateToken(otherResp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
