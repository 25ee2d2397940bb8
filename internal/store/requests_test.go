package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/supplychain/internal/db"
	"github.com/erazemk/supplychain/internal/model"
)

func newRequest(vendorID int64, item string) model.MaterialRequest {
	return model.MaterialRequest{
		BatchRef:        "SC-test",
		ItemName:        item,
		Quantity:        3,
		Unit:            "kg",
		VendorID:        vendorID,
		DeliveryType:    model.DeliveryTypeHub,
		DeliveryAddress: "Hub 4",
	}
}

func TestInsertAndGetRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateUser(ctx, database, "vendor1", "v@v.com", "hash", model.RoleVendor)

	id, err := InsertRequest(ctx, database, newRequest(vendor.ID, "rice"))
	require.NoError(t, err)

	r, err := GetRequest(ctx, database, id)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, r.Status)
	assert.Equal(t, "vendor1", r.VendorName)

	missing, err := GetRequest(ctx, database, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertRequestRejectsZeroQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateUser(ctx, database, "vendor1", "v@v.com", "hash", model.RoleVendor)
	r := newRequest(vendor.ID, "rice")
	r.Quantity = 0

	_, err := InsertRequest(ctx, database, r)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestTransitionRequestIsConditional(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateUser(ctx, database, "vendor1", "v@v.com", "hash", model.RoleVendor)
	id, _ := InsertRequest(ctx, database, newRequest(vendor.ID, "rice"))

	ok, err := TransitionRequest(ctx, database, id, model.RequestStatusPending, model.RequestStatusConfirmed)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = TransitionRequest(ctx, database, id, model.RequestStatusPending, model.RequestStatusConfirmed)
	require.NoError(t, err)
	assert.False(t, ok, "second pending->confirmed should match nothing")
}

func TestDeleteRequestOnlyInStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateUser(ctx, database, "vendor1", "v@v.com", "hash", model.RoleVendor)
	id, _ := InsertRequest(ctx, database, newRequest(vendor.ID, "rice"))
	TransitionRequest(ctx, database, id, model.RequestStatusPending, model.RequestStatusConfirmed)

	ok, err := DeleteRequest(ctx, database, id, model.RequestStatusPending)
	require.NoError(t, err)
	assert.False(t, ok, "confirmed request should survive a pending-only delete")

	ok, err = DeleteRequest(ctx, database, id, model.RequestStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListRequestOrderings(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateUser(ctx, database, "vendor1", "v@v.com", "hash", model.RoleVendor)
	first, _ := InsertRequest(ctx, database, newRequest(vendor.ID, "rice"))
	second, _ := InsertRequest(ctx, database, newRequest(vendor.ID, "wheat"))

	pending, err := ListRequestsByStatus(ctx, database, model.RequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].ID, "pending oldest first")

	mine, err := ListRequestsForVendor(ctx, database, vendor.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second, mine[0].ID, "vendor view newest first")

	batch, err := ListRequestsByBatch(ctx, database, "SC-test")
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}
