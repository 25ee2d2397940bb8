package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/supplychain/internal/db"
	"github.com/erazemk/supplychain/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "vendor1", "v@v.com", "hash123", model.RoleVendor)
	require.NoError(t, err)
	assert.Equal(t, "vendor1", user.Username)
	assert.Equal(t, model.RoleVendor, user.Role)

	got, err := GetUser(ctx, database, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v@v.com", got.Email)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "driver1", "d@d.com", "hash", model.RoleDriver)
	require.NoError(t, err)

	_, err = CreateUser(ctx, database, "driver1", "other@d.com", "hash", model.RoleDriver)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "root", "r@r.com", "hash", "admin")
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "alice", "a@a.com", "hash", model.RoleSupplier)

	user, err := GetUserByUsername(ctx, database, "alice")
	require.NoError(t, err)
	assert.NotNil(t, user)

	missing, err := GetUserByUsername(ctx, database, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListUsersByRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "a", "a@x", "hash", model.RoleDriver)
	CreateUser(ctx, database, "b", "b@x", "hash", model.RoleDriver)
	CreateUser(ctx, database, "c", "c@x", "hash", model.RoleVendor)

	all, err := ListUsers(ctx, database, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	drivers, err := ListUsers(ctx, database, model.RoleDriver)
	require.NoError(t, err)
	assert.Len(t, drivers, 2)
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "pwuser", "p@p", "oldhash", model.RoleVendor)
	ok, err := UpdateUserPassword(ctx, database, user.ID, "newhash")
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := GetUser(ctx, database, user.ID)
	assert.Equal(t, "newhash", got.PasswordHash)

	ok, err = UpdateUserPassword(ctx, database, 999, "x")
	require.NoError(t, err)
	assert.False(t, ok, "missing user should not be updated")
}
