package payments

import (
	"errors"
	"fmt"
)

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidInput      = errors.New("invalid_input")
	ErrNotFound          = errors.New("not_found")
	ErrUnavailable       = errors.New("storage_unavailable")
	ErrGateway           = errors.New("gateway_failure")
	ErrSignatureMismatch = errors.New("signature_mismatch")
	ErrNotPending        = errors.New("not_pending")
)

// OpError is a typed operation error mirroring the identity error contract:
// Kind is one of the sentinels above, Msg carries context, never secrets.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// NotFoundError reports a missing payment record.
type NotFoundError struct {
	Op       string
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrNotFound)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrNotFound, e.Resource)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUnavailable reports whether err represents ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsGateway reports whether err represents ErrGateway.
func IsGateway(err error) bool { return errors.Is(err, ErrGateway) }

// IsSignatureMismatch reports whether err represents ErrSignatureMismatch.
func IsSignatureMismatch(err error) bool { return errors.Is(err, ErrSignatureMismatch) }

// IsNotPending reports whether err represents ErrNotPending.
func IsNotPending(err error) bool { return errors.Is(err, ErrNotPending) }
