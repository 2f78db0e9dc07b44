//go:build unix

package transport

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// readErrnos is the POSIX receive-error table.  recv(2) never reports a
// truncation on a stream socket, so nothing maps to ReadTruncated.
var readErrnos = map[syscall.Errno]ReadClass{
	unix.EINTR:        ReadRetry,
	unix.ECONNRESET:   ReadReset,
	unix.ECONNABORTED: ReadReset,
	unix.ETIMEDOUT:    ReadFatal,
	unix.ENOTCONN:     ReadFatal,
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
