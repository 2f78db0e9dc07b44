// Package errors provides the error types surfaced by tcpport sessions.
//
// Every setup failure (resolve, bind, connect, listen, accept) and every
// send failure is a *SocketError carrying the failing OS call, the address
// involved and the platform error code.  The Kind field is one of the
// sentinel values below so callers can branch with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

// Failure kinds carried by SocketError.Kind.
var (
	ErrResolution      = errors.New("address resolution failed")
	ErrAddressNotFound = errors.New("no IPv4 TCP address found")
	ErrBind            = errors.New("bind failed")
	ErrConnect         = errors.New("connect failed")
	ErrListen          = errors.New("listen failed")
	ErrAccept          = errors.New("accept failed")
	ErrSend            = errors.New("send failed")
)

// Session state misuse.
var (
	ErrNotOpen     = errors.New("session is not open")
	ErrAlreadyOpen = errors.New("session is already open")
)

// ── Structured error types ───────────────────────────────────────────

// SocketError represents a failed socket operation.
type SocketError struct {
	Kind error  // one of the Err* kinds above
	Op   string // OS call: "lookup", "bind", "connect", "listen", "accept", "send"
	Addr string // endpoint involved, host:port
	Code int    // platform error code, 0 when none is known
	Err  error  // underlying error
}

func (e *SocketError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Code != 0 {
		s += fmt.Sprintf(" (code %d)", e.Code)
	}
	return s
}

func (e *SocketError) Unwrap() error { return e.Err }

// Is matches the error's kind, so errors.Is(err, ErrConnect) works on a
// wrapped SocketError.
func (e *SocketError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // flag name without dashes
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a SocketError of the given kind.
func Wrap(kind error, op, addr string, code int, err error) *SocketError {
	if err == nil {
		err = kind
	}
	return &SocketError{Kind: kind, Op: op, Addr: addr, Code: code, Err: err}
}

// KindOf returns the kind of a SocketError anywhere in err's chain, or nil.
func KindOf(err error) error {
	var se *SocketError
	if errors.As(err, &se) {
		return se.Kind
	}
	return nil
}

// IsSetupFailure reports whether err aborted connection establishment.
func IsSetupFailure(err error) bool {
	switch KindOf(err) {
	case ErrResolution, ErrAddressNotFound, ErrBind, ErrConnect, ErrListen, ErrAccept:
		return true
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These let callers use tcpport/internal/errors in place of the
// standard library package.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
