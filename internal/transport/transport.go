// Package transport holds the platform-facing pieces a session is built
// on: host resolution, the process-wide socket subsystem, per-OS error
// classification and raw socket options.  Everything that differs between
// the POSIX and Winsock socket families lives behind build tags in this
// package, so callers never branch on runtime.GOOS.
package transport

import "context"

// Resolver turns a host and port into exactly one IPv4 TCP endpoint.
type Resolver interface {
	Resolve(ctx context.Context, host string, port int) (ResolvedAddress, error)
}

// Lifetime is a process-wide resource acquired before the first socket
// call and released after the last session is gone.
type Lifetime interface {
	Acquire() error
	Release() error
}
