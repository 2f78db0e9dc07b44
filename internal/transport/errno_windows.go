//go:build windows

package transport

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// readErrnos is the Winsock receive-error table.  ERROR_IO_PENDING shows
// up when the peer recreates its socket mid-read; it is handled like a
// reset.
var readErrnos = map[syscall.Errno]ReadClass{
	windows.WSAEINTR:         ReadRetry,
	windows.WSAEMSGSIZE:      ReadTruncated,
	windows.WSAECONNRESET:    ReadReset,
	windows.WSAECONNABORTED:  ReadReset,
	windows.ERROR_IO_PENDING: ReadReset,
}

func classifyErrno(err error) (ReadClass, bool) {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ReadFatal, false
	}
	c, ok := readErrnos[errno]
	return c, ok
}

func errnoCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
