package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/store"
)

// ListAvailable returns unclaimed orders, quick ones first, newest first
// within each group. It is a plain read of committed state.
func (s *Service) ListAvailable(ctx context.Context) ([]model.DeliveryOrder, error) {
	return store.ListAvailableOrders(ctx, s.db)
}

// deliveryTimeLayout is the stored form of a delivery time: a zero-padded
// 24-hour time of day, so stored values sort chronologically as text.
const deliveryTimeLayout = "15:04"

// NormalizeDeliveryTime validates a time of day such as "9:00" or "14:30"
// and returns it zero-padded.
func NormalizeDeliveryTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", validationError("delivery time is required")
	}
	t, err := time.Parse(deliveryTimeLayout, s)
	if err != nil {
		return "", validationError("delivery time %q must be HH:MM", s)
	}
	return t.Format(deliveryTimeLayout), nil
}

// Accept claims an available order for a driver. The claim is one
// conditional write against the store; if it matches no row the order was
// taken by someone else or never existed, and ErrAlreadyClaimed is returned.
// A lost race is an expected outcome and is not retried.
func (s *Service) Accept(ctx context.Context, orderID, driverID int64, deliveryTime string) (*model.DeliveryOrder, error) {
	deliveryTime, err := NormalizeDeliveryTime(deliveryTime)
	if err != nil {
		return nil, err
	}
	if orderID <= 0 || driverID <= 0 {
		return nil, validationError("order and driver ids are required")
	}

	ok, err := store.ClaimOrder(ctx, s.db, orderID, driverID, deliveryTime)
	if errors.Is(err, store.ErrConstraint) {
		// The only foreign key the claim writes is driver_id.
		return nil, fmt.Errorf("accepting order %d: driver %d: %w", orderID, driverID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("accepting order %d: %w", orderID, err)
	}
	if !ok {
		s.log.Info("claim lost", "order", orderID, "driver", driverID)
		return nil, fmt.Errorf("accepting order %d: %w", orderID, ErrAlreadyClaimed)
	}

	s.log.Info("order accepted", "order", orderID, "driver", driverID, "delivery_time", deliveryTime)
	return s.readOrder(ctx, orderID)
}

// Advance moves a driver's own order to newStatus, which must be the direct
// successor of its current status. The ownership and prior-status checks are
// the predicate of one conditional write. Reaching delivery_complete also
// completes the originating request when it is still confirmed.
func (s *Service) Advance(ctx context.Context, orderID, driverID int64, newStatus string) (*model.DeliveryOrder, error) {
	if !model.DriverAdvanceable(newStatus) {
		return nil, validationError("status %q cannot be set by a driver", newStatus)
	}
	if orderID <= 0 || driverID <= 0 {
		return nil, validationError("order and driver ids are required")
	}
	from := model.PreviousOrderStatus(newStatus)

	var completedRequest *int64
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := store.AdvanceOrder(ctx, tx, orderID, driverID, from, newStatus)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPermissionDeniedOrNotFound
		}
		if newStatus != model.OrderStatusDeliveryComplete {
			return nil
		}

		order, err := store.GetOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.RequestID == nil {
			return nil
		}
		done, err := store.TransitionRequest(ctx, tx, *order.RequestID,
			model.RequestStatusConfirmed, model.RequestStatusCompleted)
		if err != nil {
			return err
		}
		if done {
			completedRequest = order.RequestID
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("advancing order %d to %s: %w", orderID, newStatus, err)
	}

	s.log.Info("order advanced", "order", orderID, "driver", driverID, "status", newStatus)
	if completedRequest != nil {
		s.log.Info("request completed by delivery", "request", *completedRequest, "order", orderID)
	}
	return s.readOrder(ctx, orderID)
}

// ListAcceptedForDriver returns the driver's accepted and out-for-delivery
// orders grouped by delivery address, each group by delivery time.
func (s *Service) ListAcceptedForDriver(ctx context.Context, driverID int64) (map[string][]model.DeliveryOrder, error) {
	orders, err := store.ListDriverOrders(ctx, s.db, driverID,
		model.OrderStatusAccepted, model.OrderStatusOutForDelivery)
	if err != nil {
		return nil, fmt.Errorf("listing orders for driver %d: %w", driverID, err)
	}

	grouped := make(map[string][]model.DeliveryOrder)
	for _, o := range orders {
		grouped[o.DeliveryAddress] = append(grouped[o.DeliveryAddress], o)
	}
	return grouped, nil
}

// GetOrder returns one order.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*model.DeliveryOrder, error) {
	return s.readOrder(ctx, orderID)
}

func (s *Service) readOrder(ctx context.Context, orderID int64) (*model.DeliveryOrder, error) {
	order, err := store.GetOrder(ctx, s.db, orderID)
	if err != nil {
		return nil, fmt.Errorf("reading order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return order, nil
}
