//go:build windows

package transport

import (
	"net"
	"syscall"

	"golang.org/x/sys/windows"
)

// ReuseAddrControl is a no-op on Windows, where SO_REUSEADDR lets another
// process steal a bound port.
func ReuseAddrControl(_, _ string, _ syscall.RawConn) error { return nil }

// SetListenBacklog re-issues listen on ln.  Winsock accepts the call on a
// listening socket but may keep the original backlog.
func SetListenBacklog(ln *net.TCPListener, backlog int) error {
	rc, err := ln.SyscallConn()
	if err != nil {
		return err
	}
	var listenErr error
	err = rc.Control(func(fd uintptr) {
		listenErr = windows.Listen(windows.Handle(fd), backlog)
	})
	if err != nil {
		return err
	}
	return listenErr
}
