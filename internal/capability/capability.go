// Package capability defines what happens over an established session.
// Each Capability encapsulates a single behaviour (relay I/O, execute a
// program) and works through the session's Read/Write contract rather
// than a raw net.Conn, which keeps capabilities testable and unaware
// of platform error handling.
package capability

import (
	"context"
	"io"

	"tcpport/internal/session"
	"tcpport/util"
)

// Endpoints are the local side of a capability: where outbound bytes
// come from, where inbound bytes go, and where diagnostics are logged.
type Endpoints struct {
	Stdin  io.Reader
	Stdout io.Writer
	Logger *util.Logger
}

// Capability handles a single open session according to a specific
// behaviour.  Implementations include relaying stdin/stdout (Relay)
// and executing a child process (Exec).
type Capability interface {
	// Handle runs the capability against s.  It blocks until the
	// stream is done or the context is cancelled.  The caller owns s
	// and closes it afterwards; a capability may close it early to
	// unblock a pending Read.
	Handle(ctx context.Context, s *session.Session, ep Endpoints) error
}
