package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultBindAddress is the local address bound by listen mode and
	// by a source-bound connect when -s is not given.
	DefaultBindAddress = "0.0.0.0"

	// DefaultLocalAddress is the loopback address used by tests and
	// examples.
	DefaultLocalAddress = "127.0.0.1"

	// DefaultScanTimeout is the per-port timeout for port scanning.
	DefaultScanTimeout = 3 * time.Second

	// DefaultMaxConcurrentScans limits the number of simultaneous scan
	// goroutines, and therefore open sockets.
	DefaultMaxConcurrentScans = 100

	// DefaultConnTimeout bounds a single connect attempt when -w is
	// not given.
	DefaultConnTimeout = 30 * time.Second

	// DefaultRetryDelay is the wait before the first connect retry.
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryBackoff caps the exponential backoff between
	// connect attempts.
	DefaultMaxRetryBackoff = 30 * time.Second
)
