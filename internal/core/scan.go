package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tcpport/config"
	"tcpport/internal/transport"
)

// ProbeFunc reports whether host:port accepts a TCP connection.
type ProbeFunc func(ctx context.Context, host string, port int) error

// ScanResult records whether a single port is open.
type ScanResult struct {
	Port int
	Open bool
	Err  error
}

// ScanMode probes a set of TCP ports on a target host and reports
// which are open.  Each probe is a full connect and close on its own
// session.
type ScanMode struct {
	Runtime

	Host      string
	LocalHost string // optional source address
	Ports     []int
	Timeout   time.Duration
	// Concurrency caps simultaneous probes (default
	// config.DefaultMaxConcurrentScans).
	Concurrency int
	Verbose     int
}

// Run resolves the target once, scans all configured ports and logs
// the results.
func (m *ScanMode) Run(ctx context.Context) error {
	if len(m.Ports) == 0 {
		return fmt.Errorf("no ports specified for scanning")
	}

	timeout := m.Timeout
	if timeout == 0 {
		timeout = config.DefaultScanTimeout
	}

	resolver := m.Resolver
	if resolver == nil {
		resolver = transport.NewHostResolver()
	}
	ip, err := transport.LookupIPv4(ctx, resolver, m.Host)
	if err != nil {
		return fmt.Errorf("scan %s: %w", m.Host, err)
	}

	m.Logger.Verbose("scanning %s (%s) - %d port(s)", m.Host, ip, len(m.Ports))

	results := ScanPorts(ctx, ip, m.Ports, timeout, m.Concurrency, m.probe)

	open := 0
	for _, r := range results {
		if r.Open {
			open++
			m.Logger.Info("%s %d/tcp open", m.Host, r.Port)
		} else if m.Verbose >= 2 {
			m.Logger.Verbose("%s %d/tcp closed - %v", m.Host, r.Port, r.Err)
		}
	}

	if open == 0 && m.Verbose >= 1 {
		m.Logger.Info("no open ports found on %s", m.Host)
	}
	return nil
}

func (m *ScanMode) probe(ctx context.Context, host string, port int) error {
	s := m.newSession()
	defer s.Close()
	if m.LocalHost != "" {
		return s.ConnectFrom(ctx, m.LocalHost, 0, host, port)
	}
	return s.Connect(ctx, host, port)
}

// ScanPorts probes every port concurrently, at most limit at a time,
// and returns results in the same order as the input slice.
func ScanPorts(ctx context.Context, host string, ports []int, timeout time.Duration, limit int, probe ProbeFunc) []ScanResult {
	if limit <= 0 {
		limit = config.DefaultMaxConcurrentScans
	}
	results := make([]ScanResult, len(ports))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, port := range ports {
		wg.Add(1)
		go func(idx, p int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			scanCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			if err := probe(scanCtx, host, p); err != nil {
				results[idx] = ScanResult{Port: p, Open: false, Err: err}
				return
			}
			results[idx] = ScanResult{Port: p, Open: true}
		}(i, port)
	}

	wg.Wait()
	return results
}
