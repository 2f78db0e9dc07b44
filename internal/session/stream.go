package session

import "io"

// Stream adapts a Session to io.ReadWriteCloser for io.Copy, os/exec
// and friends.
type Stream struct {
	s *Session
}

// Stream returns an io.ReadWriteCloser view of s.
func (s *Session) Stream() *Stream { return &Stream{s: s} }

// Read maps ReadClosed to io.EOF, or to the recorded error when the
// stream ended abnormally.
func (st *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := st.s.Read(p)
	if n == ReadClosed {
		if err := st.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return n, nil
}

// Write sends all of p, looping over partial writes.
func (st *Stream) Write(p []byte) (int, error) {
	var total int
	for total < len(p) {
		n, err := st.s.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// CloseWrite half-closes the underlying session.
func (st *Stream) CloseWrite() error { return st.s.CloseWrite() }

// Close closes the underlying session.  It never fails.
func (st *Stream) Close() error {
	st.s.Close()
	return nil
}

var _ io.ReadWriteCloser = (*Stream)(nil)
