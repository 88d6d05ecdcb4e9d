package versioned

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrContextActive indicates Open was called while another version context
	// is still open and the session rejects reentrant opens.
	ErrContextActive = errors.New("versioned: version context already active")
	// ErrOverlayActive indicates a base-only write was attempted while a
	// non-base version is ambient.
	ErrOverlayActive = errors.New("versioned: base write while overlay version active")
	// ErrNegativeVersion indicates a version below Base was requested.
	ErrNegativeVersion = errors.New("versioned: version must not be negative")
	// ErrValueType indicates a stored value does not have the type the
	// accessor expects.
	ErrValueType = errors.New("versioned: stored value has unexpected type")
)

// StateError captures the context state alongside the originating error.
type StateError struct {
	Op        string
	Requested Version
	Active    Version
	Err       error
}

func (e *StateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("versioned: %s requested=%s active=%s: %v", e.Op, e.Requested, e.Active, e.Err)
}

func (e *StateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newStateError(op string, requested, active Version, err error) error {
	return &StateError{
		Op:        op,
		Requested: requested,
		Active:    active,
		Err:       err,
	}
}

func valueTypeError(key PropertyKey, want string, got any) error {
	return fmt.Errorf("%w: %s want %s, got %T", ErrValueType, key, want, got)
}

func isContextActive(err error) bool {
	return errors.Is(err, ErrContextActive)
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
