package transport

import (
	"fmt"
	"sync"
)

// Subsystem is the reference-counted, process-wide socket library
// lifetime.  The first Acquire starts the library and the last Release
// shuts it down.  On platforms that need no initialisation both are
// bookkeeping only.
type Subsystem struct {
	mu      sync.Mutex
	refs    int
	startup func() error
	cleanup func() error
}

var defaultSubsystem = NewSubsystem()

// DefaultSubsystem returns the process singleton.
func DefaultSubsystem() *Subsystem { return defaultSubsystem }

// NewSubsystem returns a Subsystem bound to this platform's socket
// library.
func NewSubsystem() *Subsystem {
	return &Subsystem{startup: platformStartup, cleanup: platformCleanup}
}

// Acquire takes a reference, starting the library on the first one.
func (s *Subsystem) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 && s.startup != nil {
		if err := s.startup(); err != nil {
			return fmt.Errorf("socket subsystem startup: %w", err)
		}
	}
	s.refs++
	return nil
}

// Release drops a reference, shutting the library down with the last
// one.  Releasing with no references held does nothing.
func (s *Subsystem) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		return nil
	}
	s.refs--
	if s.refs == 0 && s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			return fmt.Errorf("socket subsystem cleanup: %w", err)
		}
	}
	return nil
}

// Refs returns the number of outstanding references.
func (s *Subsystem) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}
