//go:build !unix && !windows

package transport

import (
	"net"
	"syscall"
)

// ReuseAddrControl is a no-op on this platform.
func ReuseAddrControl(_, _ string, _ syscall.RawConn) error { return nil }

// SetListenBacklog is a no-op on this platform.
func SetListenBacklog(*net.TCPListener, int) error { return nil }
