package claims

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Reason tags why a reservation was refused.
type Reason int

const (
	CooldownActive Reason = iota + 1
	ClaimAlreadyPending
	ModuleNotFound
	OutOfStock
	LinkCreationFailed
)

var (
	ErrCooldownActive      = errors.New("cooldown active")
	ErrClaimAlreadyPending = errors.New("claim already pending")
	ErrModuleNotFound      = errors.New("module not found")
	ErrOutOfStock          = errors.New("out of stock")
	ErrLinkCreationFailed  = errors.New("verification link creation failed")

	// ErrClaimCancelled is returned when the claim was cancelled while its
	// verification link was still being created.
	ErrClaimCancelled = errors.New("claim cancelled during reservation")
)

func (r Reason) sentinel() error {
	switch r {
	case CooldownActive:
		return ErrCooldownActive
	case ClaimAlreadyPending:
		return ErrClaimAlreadyPending
	case ModuleNotFound:
		return ErrModuleNotFound
	case OutOfStock:
		return ErrOutOfStock
	case LinkCreationFailed:
		return ErrLinkCreationFailed
	default:
		return nil
	}
}

func (r Reason) String() string {
	if err := r.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown"
}

// RejectionError is an expected, user-facing refusal of a reservation.
type RejectionError struct {
	Reason Reason
	// Wait is the remaining cooldown, set for CooldownActive.
	Wait time.Duration
	// Suggestions holds similar module names, set for ModuleNotFound.
	Suggestions []string
	// Err is the underlying cause, set for LinkCreationFailed.
	Err error
}

func (e *RejectionError) Error() string {
	switch {
	case e.Reason == CooldownActive:
		return fmt.Sprintf("%s: retry in %s", e.Reason, e.Wait.Round(time.Second))
	case len(e.Suggestions) > 0:
		return fmt.Sprintf("%s (did you mean %s?)", e.Reason, strings.Join(e.Suggestions, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return e.Reason.String()
	}
}

func (e *RejectionError) Is(target error) bool {
	return target == e.Reason.sentinel()
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// AsRejection extracts the rejection from err, if any.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
