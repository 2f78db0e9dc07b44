package transport

import (
	"errors"
	"os"
)

// ReadClass is the normalised meaning of an error from a receive call.
type ReadClass int

const (
	// ReadFatal ends the stream.  Unknown errors and EOF land here.
	ReadFatal ReadClass = iota
	// ReadRetry is an interrupted call; receive again.
	ReadRetry
	// ReadTruncated means the buffer was smaller than the pending
	// message.  Whatever was delivered is a successful read.
	ReadTruncated
	// ReadReset means the peer reset the connection.  Treated as a close.
	ReadReset
)

func (c ReadClass) String() string {
	switch c {
	case ReadFatal:
		return "fatal"
	case ReadRetry:
		return "retry"
	case ReadTruncated:
		return "truncated"
	case ReadReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ClassifyReadError maps err to a ReadClass using this platform's errno
// table.  A nil error is ReadRetry.
func ClassifyReadError(err error) ReadClass {
	if err == nil {
		return ReadRetry
	}
	if c, ok := classifyErrno(err); ok {
		return c
	}
	return ReadFatal
}

// ErrorCode returns the platform error number inside err, or 0.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	return errnoCode(err)
}

// IsBindFailure reports whether err came from the bind(2) step of a
// dial or listen.
func IsBindFailure(err error) bool {
	var se *os.SyscallError
	return errors.As(err, &se) && se.Syscall == "bind"
}
