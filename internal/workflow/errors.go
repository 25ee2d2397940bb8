package workflow

import (
	"errors"
	"fmt"

	"github.com/erazemk/supplychain/internal/store"
)

// Error kinds returned by the service. Match them with errors.Is; the
// wrapped message carries the detail.
var (
	// ErrValidation is malformed input, caught before the store is touched.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is not legal from the entity's
	// current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrAlreadyClaimed means an accept lost: the order was taken by another
	// driver or does not exist. The two cases are not told apart.
	ErrAlreadyClaimed = errors.New("order no longer available")

	// ErrPermissionDeniedOrNotFound means an advance matched no order: it is
	// missing, owned by another driver or not in the required prior status.
	ErrPermissionDeniedOrNotFound = errors.New("order not found or not owned by driver")

	// ErrStoreUnavailable is an infrastructure failure. It is never retried
	// here.
	ErrStoreUnavailable = store.ErrUnavailable

	// ErrConflict is returned when a unique value such as a username is taken.
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials is returned by Authenticate on any mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
