package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// StaleWindowError wraps a property query that failed because the
// window no longer exists. The caller deletes the window from the
// World Model on the next reconciliation sweep instead of treating
// this as fatal.
type StaleWindowError struct {
	Window xproto.Window
	Err    error
}

func (e *StaleWindowError) Error() string {
	return fmt.Sprintf("window %x is stale: %v", uint32(e.Window), e.Err)
}

func (e *StaleWindowError) Unwrap() error { return e.Err }

func newStaleWindowError(win xproto.Window, err error) error {
	return &StaleWindowError{Window: win, Err: err}
}

// IsStaleWindow reports whether err denotes a query against a window
// that has already been destroyed.
func IsStaleWindow(err error) bool {
	var swe *StaleWindowError
	return errors.As(err, &swe)
}

// TransportError denotes a lost or broken connection to the X server,
// or a request that failed because the window manager itself is gone.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("x11 transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err as a TransportError.
func NewTransportError(err error) error {
	return &TransportError{Err: err}
}

// IsTransportError reports whether err denotes a connection-level failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
