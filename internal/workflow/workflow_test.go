package workflow

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/supplychain/internal/db"
	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/store"
)

type fixture struct {
	svc      *Service
	db       *sql.DB
	supplier *model.User
	vendor   *model.User
	driverA  *model.User
	driverB  *model.User
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	mk := func(name, role string) *model.User {
		u, err := store.CreateUser(ctx, database, name, name+"@example.com", "hash", role)
		require.NoError(t, err)
		return u
	}

	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return &fixture{
		svc:      New(database, opts...),
		db:       database,
		supplier: mk("supplier1", model.RoleSupplier),
		vendor:   mk("vendor1", model.RoleVendor),
		driverA:  mk("driverA", model.RoleDriver),
		driverB:  mk("driverB", model.RoleDriver),
	}
}

// confirmedOrder creates and confirms a single request and returns the
// derived order.
func (f *fixture) confirmedOrder(t *testing.T, item, address string) *model.DeliveryOrder {
	t.Helper()
	ctx := context.Background()
	batch, err := f.svc.CreateRequest(ctx, f.vendor.ID, []string{item}, model.DeliveryTypeDoor, address)
	require.NoError(t, err)
	require.Len(t, batch.RequestIDs, 1)

	order, err := f.svc.ConfirmRequest(ctx, batch.RequestIDs[0])
	require.NoError(t, err)
	return order
}

// assertOrderInvariant checks that driver_id and delivery_time are unset
// exactly when an order is available, for every stored order.
func assertOrderInvariant(t *testing.T, database *sql.DB) {
	t.Helper()
	rows, err := database.Query(`SELECT id, status, driver_id IS NULL, delivery_time IS NULL FROM delivery_orders`)
	require.NoError(t, err)
	defer rows.Close()

	for rows.Next() {
		var id int64
		var status string
		var noDriver, noTime bool
		require.NoError(t, rows.Scan(&id, &status, &noDriver, &noTime))
		available := status == model.OrderStatusAvailable
		require.Equalf(t, available, noDriver, "order %d: status %s, driver unset %v", id, status, noDriver)
		require.Equalf(t, available, noTime, "order %d: status %s, time unset %v", id, status, noTime)
	}
	require.NoError(t, rows.Err())
}
