package services

import (
	"testing"

	"github.com/brewstack/coffeecli/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndLookup(t *testing.T) {
	db, _ := setupTestDB(t)
	users := NewUserService(db)

	id, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)
	assert.NotZero(t, id)

	user, err := users.GetUserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "joe", user.Username)
	assert.Equal(t, "joe@coffee.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, _ := setupTestDB(t)
	users := NewUserService(db)

	_, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	_, err = users.CreateUser("joe", "other@coffee.com")
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, _ := setupTestDB(t)
	users := NewUserService(db)

	_, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	_, err = users.CreateUser("joey", "joe@coffee.com")
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestCreateUserEmptyFields(t *testing.T) {
	db, _ := setupTestDB(t)
	users := NewUserService(db)

	_, err := users.CreateUser("", "joe@coffee.com")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = users.CreateUser("joe", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGetUserByIDNotFound(t *testing.T) {
	db, _ := setupTestDB(t)
	users := NewUserService(db)

	_, err := users.GetUserByID(42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
