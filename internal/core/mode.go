// Package core is the orchestration layer.  It composes sessions and
// capabilities into complete operational modes and provides a builder
// that selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  capability  →  core  →  cmd (CLI)
//
// Every mode drives one or more session.Session values; none of them
// touches a raw socket.
package core

import (
	"context"
	"io"
	"os"

	"tcpport/internal/capability"
	"tcpport/internal/metrics"
	"tcpport/internal/session"
	"tcpport/internal/transport"
	"tcpport/util"
)

// Mode represents a complete operational mode of tcpport (connect,
// listen or scan).  Each mode owns its full lifecycle from connection
// establishment to teardown.
type Mode interface {
	Run(ctx context.Context) error
}

// Runtime carries the collaborators shared by every mode.
type Runtime struct {
	Resolver transport.Resolver // nil: transport.NewHostResolver()
	Logger   *util.Logger
	Metrics  *metrics.Collector
	Digest   *capability.Digest // used by Relay when --digest is set

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	// Override in tests for deterministic I/O.
	Stdin  io.Reader
	Stdout io.Writer
}

func (r *Runtime) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runtime) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runtime) endpoints() capability.Endpoints {
	return capability.Endpoints{Stdin: r.stdin(), Stdout: r.stdout(), Logger: r.Logger}
}

func (r *Runtime) newSession(extra ...session.Option) *session.Session {
	opts := []session.Option{
		session.WithLogger(r.Logger),
		session.WithMetrics(r.Metrics),
	}
	if r.Resolver != nil {
		opts = append(opts, session.WithResolver(r.Resolver))
	}
	return session.New(append(opts, extra...)...)
}
