package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/supplychain/internal/db"
	"github.com/erazemk/supplychain/internal/model"
)

func newOrder(quick bool) model.DeliveryOrder {
	return model.DeliveryOrder{
		VendorName:      "vendor1",
		PickupAddress:   "Central Warehouse",
		DeliveryAddress: "Hub 4",
		DeliveryType:    model.DeliveryTypeHub,
		IsQuick:         quick,
	}
}

func TestInsertOrderStartsAvailable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	o := newOrder(true)
	o.Status = model.OrderStatusAccepted
	id, err := InsertOrder(ctx, database, o)
	require.NoError(t, err)

	got, err := GetOrder(ctx, database, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAvailable, got.Status)
	assert.Nil(t, got.DriverID)
	assert.Nil(t, got.DeliveryTime)
	assert.True(t, got.IsQuick)

	missing, err := GetOrder(ctx, database, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertOrderUnknownRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	o := newOrder(false)
	requestID := int64(4242)
	o.RequestID = &requestID

	_, err := InsertOrder(ctx, database, o)
	assert.ErrorIs(t, err, ErrConstraint)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestListAvailableOrdersOrdering(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	slowOld, _ := InsertOrder(ctx, database, newOrder(false))
	quickOld, _ := InsertOrder(ctx, database, newOrder(true))
	slowNew, _ := InsertOrder(ctx, database, newOrder(false))
	quickNew, _ := InsertOrder(ctx, database, newOrder(true))

	orders, err := ListAvailableOrders(ctx, database)
	require.NoError(t, err)

	var got []int64
	for _, o := range orders {
		got = append(got, o.ID)
	}
	assert.Equal(t, []int64{quickNew, quickOld, slowNew, slowOld}, got)
}

func TestClaimOrderOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d1, _ := CreateUser(ctx, database, "driver1", "d1@d", "hash", model.RoleDriver)
	d2, _ := CreateUser(ctx, database, "driver2", "d2@d", "hash", model.RoleDriver)
	id, _ := InsertOrder(ctx, database, newOrder(false))

	ok, err := ClaimOrder(ctx, database, id, d1.ID, "10:00")
	require.NoError(t, err)
	require.True(t, ok, "first claim should win")

	ok, err = ClaimOrder(ctx, database, id, d2.ID, "11:00")
	require.NoError(t, err)
	assert.False(t, ok, "second claim should lose")

	got, _ := GetOrder(ctx, database, id)
	require.NotNil(t, got.DriverID)
	assert.Equal(t, d1.ID, *got.DriverID)
	require.NotNil(t, got.DeliveryTime)
	assert.Equal(t, "10:00", *got.DeliveryTime)

	ok, err = ClaimOrder(ctx, database, id+100, d1.ID, "10:00")
	require.NoError(t, err)
	assert.False(t, ok, "claim of a missing order should match nothing")
}

func TestClaimOrderUnknownDriver(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, _ := InsertOrder(ctx, database, newOrder(false))

	ok, err := ClaimOrder(ctx, database, id, 99999, "10:00")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrConstraint)
	assert.NotErrorIs(t, err, ErrUnavailable)

	got, _ := GetOrder(ctx, database, id)
	assert.Equal(t, model.OrderStatusAvailable, got.Status)
}

func TestClaimOrderConcurrent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	const drivers = 8
	ids := make([]int64, drivers)
	for i := range ids {
		u, err := CreateUser(ctx, database, fmt.Sprintf("driver%d", i), "d@d", "hash", model.RoleDriver)
		require.NoError(t, err)
		ids[i] = u.ID
	}
	orderID, _ := InsertOrder(ctx, database, newOrder(false))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for _, driverID := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ClaimOrder(ctx, database, orderID, driverID, "09:30")
			if !assert.NoError(t, err) {
				return
			}
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load(), "expected exactly one winner")
}

func TestAdvanceOrderRequiresOwnerAndPriorStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner, _ := CreateUser(ctx, database, "driver1", "d1@d", "hash", model.RoleDriver)
	other, _ := CreateUser(ctx, database, "driver2", "d2@d", "hash", model.RoleDriver)
	id, _ := InsertOrder(ctx, database, newOrder(false))
	_, err := ClaimOrder(ctx, database, id, owner.ID, "10:00")
	require.NoError(t, err)

	ok, _ := AdvanceOrder(ctx, database, id, other.ID, model.OrderStatusAccepted, model.OrderStatusOutForDelivery)
	assert.False(t, ok, "non-owner advance should fail")

	ok, _ = AdvanceOrder(ctx, database, id, owner.ID, model.OrderStatusOutForDelivery, model.OrderStatusDeliveryComplete)
	assert.False(t, ok, "advance from the wrong prior status should fail")

	ok, err = AdvanceOrder(ctx, database, id, owner.ID, model.OrderStatusAccepted, model.OrderStatusOutForDelivery)
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := GetOrder(ctx, database, id)
	assert.Equal(t, model.OrderStatusOutForDelivery, got.Status)
}

func TestListDriverOrdersFiltersStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, _ := CreateUser(ctx, database, "driver1", "d1@d", "hash", model.RoleDriver)
	a, _ := InsertOrder(ctx, database, newOrder(false))
	b, _ := InsertOrder(ctx, database, newOrder(false))
	InsertOrder(ctx, database, newOrder(false))

	ClaimOrder(ctx, database, a, driver.ID, "12:00")
	ClaimOrder(ctx, database, b, driver.ID, "08:00")
	AdvanceOrder(ctx, database, b, driver.ID, model.OrderStatusAccepted, model.OrderStatusOutForDelivery)

	active, err := ListDriverOrders(ctx, database, driver.ID, model.OrderStatusAccepted, model.OrderStatusOutForDelivery)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, b, active[0].ID, "earliest delivery time first")

	accepted, err := ListDriverOrders(ctx, database, driver.ID, model.OrderStatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, a, accepted[0].ID)
}

func TestOrderInvariantEnforcedBySchema(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, _ := InsertOrder(ctx, database, newOrder(false))

	_, err := ConditionalUpdate(ctx, database, "delivery_orders",
		[]Field{F("status", model.OrderStatusAccepted)},
		[]Field{F("id", id)},
	)
	assert.ErrorIs(t, err, ErrConstraint, "accepting without a driver should break the check")
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, database.Close())

	_, err := ConditionalUpdate(ctx, database, "delivery_orders",
		[]Field{F("status", model.OrderStatusAccepted)},
		[]Field{F("id", 1)},
	)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrConstraint)

	_, err = InsertOrder(ctx, database, newOrder(false))
	assert.ErrorIs(t, err, ErrUnavailable)
}
