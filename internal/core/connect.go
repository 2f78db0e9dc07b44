package core

import (
	"context"
	"fmt"
	"time"

	"tcpport/internal/capability"
	"tcpport/internal/retry"
	"tcpport/util"
)

// ConnectMode connects to a remote endpoint and runs a capability on
// the resulting session, the default client mode.
type ConnectMode struct {
	Runtime

	Host string
	Port int

	// SourceBound binds LocalHost:LocalPort before connecting.
	SourceBound bool
	LocalHost   string
	LocalPort   int

	// Timeout bounds each connect attempt; 0 waits for the OS.
	Timeout time.Duration
	// Backoff retries failed attempts on the same session.  Nil makes
	// exactly one attempt.
	Backoff *retry.Backoff

	Capability capability.Capability
}

// Run connects, hands the session to the capability and closes it
// when the capability returns.
func (m *ConnectMode) Run(ctx context.Context) error {
	s := m.newSession()
	defer s.Close()

	address := util.FormatAddr(m.Host, m.Port)
	attempt := func(n int) error {
		actx := ctx
		if m.Timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, m.Timeout)
			defer cancel()
		}
		if n > 1 {
			m.Logger.Verbose("connect attempt %d to %s", n, address)
		}
		if m.SourceBound {
			return s.ConnectFrom(actx, m.LocalHost, m.LocalPort, m.Host, m.Port)
		}
		return s.Connect(actx, m.Host, m.Port)
	}

	var err error
	if m.Backoff != nil {
		err = m.Backoff.Do(ctx, attempt)
	} else {
		err = attempt(1)
	}
	if err != nil {
		return fmt.Errorf("connect to %s: %w", address, err)
	}

	m.Logger.Verbose("connected to %s from %s", s.RemoteEndpoint(), s.LocalEndpoint())
	return m.Capability.Handle(ctx, s, m.endpoints())
}
