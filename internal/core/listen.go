package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tcpport/internal/capability"
	"tcpport/internal/session"
	"tcpport/util"
)

// ListenMode accepts one inbound connection and runs a capability on
// it.  With KeepOpen=true it then accepts the next peer on a fresh
// session, one after another, until ctx is cancelled.
type ListenMode struct {
	Runtime

	Host string
	Port int

	KeepOpen bool
	// Timeout bounds each wait for a peer; 0 waits forever.
	Timeout time.Duration

	Capability capability.Capability

	// OnListen, if set, is told the bound endpoint each time a
	// listener is ready.
	OnListen func(session.Endpoint)
}

// Run accepts and serves peers.  A cancelled ctx ends it cleanly.
func (m *ListenMode) Run(ctx context.Context) error {
	address := util.FormatAddr(m.Host, m.Port)
	for {
		s := m.newSession(session.WithListenHook(m.listening))

		if err := m.accept(ctx, s); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("listen on %s: %w", address, err)
		}

		remote := s.RemoteEndpoint()
		m.Logger.Verbose("connection from %s", remote)
		err := m.Capability.Handle(ctx, s, m.endpoints())
		s.Close()

		if !m.KeepOpen {
			return err
		}
		if err != nil {
			m.Logger.Warn("session with %s: %v", remote, err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (m *ListenMode) accept(ctx context.Context, s *session.Session) error {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	err := s.Accept(ctx, m.Host, m.Port)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no connection within %v: %w", m.Timeout, err)
	}
	return err
}

func (m *ListenMode) listening(ep session.Endpoint) {
	m.Logger.Info("listening on %s", ep)
	if m.OnListen != nil {
		m.OnListen(ep)
	}
}
