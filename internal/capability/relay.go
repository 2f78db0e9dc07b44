package capability

import (
	"context"
	"errors"
	"fmt"
	"io"

	ncerr "tcpport/internal/errors"
	"tcpport/internal/session"
	"tcpport/util"
)

// Relay copies data between the session and the local stdin/stdout,
// the default interactive / pipe mode.
type Relay struct {
	// Digest, when set, accumulates checksums of both directions.
	Digest *Digest
}

// Handle shuttles bytes until the peer ends the stream or ctx is done.
// When stdin is exhausted the session is half-closed so the peer sees
// end-of-stream while inbound data keeps flowing.  Handle does not wait
// for a stdin read that is still blocked when the stream ends, and it
// closes s on the way out to unblock its own pending Read.
func (r *Relay) Handle(ctx context.Context, s *session.Session, ep Endpoints) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbound := make(chan error, 1)
	outbound := make(chan error, 1)

	// session → stdout
	go func() {
		buf := util.GetBuf()
		defer util.PutBuf(buf)
		for {
			n := s.Read(*buf)
			if n == session.ReadClosed {
				inbound <- s.Err()
				cancel()
				return
			}
			r.Digest.received((*buf)[:n])
			if _, err := ep.Stdout.Write((*buf)[:n]); err != nil {
				inbound <- fmt.Errorf("write stdout: %w", err)
				cancel()
				return
			}
		}
	}()

	// stdin → session
	go func() {
		var w io.Writer = s.Stream()
		if r.Digest != nil {
			w = io.MultiWriter(w, r.Digest.sentWriter())
		}
		_, err := util.Copy(w, ep.Stdin)
		if err == nil {
			ep.Logger.Debug("stdin closed, half-closing %s", s.RemoteEndpoint())
			err = s.CloseWrite()
		}
		outbound <- err
		// A clean stdin EOF must not tear the session down before
		// the peer finishes sending.
		if !benign(err) {
			cancel()
		}
	}()

	<-ctx.Done()
	s.Close() // unblocks a pending Read
	inErr := <-inbound

	var outErr error
	select {
	case outErr = <-outbound:
	default:
	}

	for _, err := range []error{inErr, outErr} {
		if !benign(err) {
			return err
		}
	}
	return nil
}

// benign reports errors expected while a relay winds down, including
// writes that lose the race with Close.
func benign(err error) bool {
	return util.IsHarmless(err) || errors.Is(err, ncerr.ErrNotOpen)
}
