// Package workflow implements the request lifecycle, the request to order
// derivation and the driver assignment engine on top of the store.
//
// Every operation that drivers can race on is a single conditional write in
// the store; the service keeps no mutable state between calls.
package workflow

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/erazemk/supplychain/internal/store"
)

// Service runs the supply chain workflow against one database handle.
type Service struct {
	db            *sql.DB
	pickupAddress string
	log           *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPickupAddress fixes the pickup address put on derived orders. Without
// it the pickup_address setting is read at each confirmation.
func WithPickupAddress(addr string) Option {
	return func(s *Service) { s.pickupAddress = addr }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service using db for all state.
func New(db *sql.DB, opts ...Option) *Service {
	s := &Service{db: db, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) pickupFor(ctx context.Context, q store.Querier) (string, error) {
	if s.pickupAddress != "" {
		return s.pickupAddress, nil
	}
	addr, err := store.GetSetting(ctx, q, store.SettingPickupAddress)
	if err != nil {
		return "", err
	}
	if addr == "" {
		return DefaultPickupAddress, nil
	}
	return addr, nil
}
