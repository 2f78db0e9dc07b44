package capability

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Digest accumulates BLAKE2b-256 checksums of the bytes a relay sends
// and receives.  A nil *Digest ignores all input.
type Digest struct {
	mu        sync.Mutex
	sentHash  hash.Hash
	recvHash  hash.Hash
	nSent     int64
	nReceived int64
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	// blake2b.New256 only fails for keys longer than 64 bytes.
	sent, _ := blake2b.New256(nil)
	received, _ := blake2b.New256(nil)
	return &Digest{sentHash: sent, recvHash: received}
}

func (d *Digest) add(h hash.Hash, n *int64, p []byte) {
	if d == nil {
		return
	}
	d.mu.Lock()
	h.Write(p) //nolint:errcheck
	*n += int64(len(p))
	d.mu.Unlock()
}

func (d *Digest) received(p []byte) {
	if d == nil {
		return
	}
	d.add(d.recvHash, &d.nReceived, p)
}

type sentWriter struct{ d *Digest }

func (w sentWriter) Write(p []byte) (int, error) {
	w.d.add(w.d.sentHash, &w.d.nSent, p)
	return len(p), nil
}

func (d *Digest) sentWriter() io.Writer { return sentWriter{d} }

// DigestSum is a snapshot of a Digest.
type DigestSum struct {
	SentBytes     int64
	Sent          string // hex
	ReceivedBytes int64
	Received      string // hex
}

func (s DigestSum) String() string {
	return fmt.Sprintf("sent %d bytes blake2b-256 %s\nreceived %d bytes blake2b-256 %s",
		s.SentBytes, s.Sent, s.ReceivedBytes, s.Received)
}

// Sum returns the checksums of everything seen so far.
func (d *Digest) Sum() DigestSum {
	if d == nil {
		return DigestSum{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return DigestSum{
		SentBytes:     d.nSent,
		Sent:          hex.EncodeToString(d.sentHash.Sum(nil)),
		ReceivedBytes: d.nReceived,
		Received:      hex.EncodeToString(d.recvHash.Sum(nil)),
	}
}
