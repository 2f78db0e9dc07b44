package core

import (
	"fmt"
	"net"
	"time"

	"tcpport/config"
	"tcpport/internal/capability"
	"tcpport/internal/retry"
	"tcpport/internal/transport"
)

// Build constructs the appropriate Mode from the given configuration.
// rt supplies the logger, metrics and I/O shared by every mode; its
// Resolver is replaced by a numeric-only one when cfg.NoDNS is set.
func Build(cfg *config.Config, rt Runtime) (Mode, error) {
	if cfg.NoDNS {
		if !cfg.Listen && net.ParseIP(cfg.Host) == nil {
			return nil, fmt.Errorf(
				"cannot parse %q as an IP address (DNS disabled with -n)",
				cfg.Host)
		}
		rt.Resolver = &transport.HostResolver{Lookup: transport.NumericOnly}
	}
	if !cfg.Digest {
		rt.Digest = nil
	}

	switch {
	case cfg.Listen:
		return buildListen(cfg, rt), nil
	case cfg.ZeroIO:
		m := buildScan(cfg, rt)
		if len(m.Ports) == 0 {
			return nil, fmt.Errorf("no ports specified for scanning")
		}
		return m, nil
	default:
		return buildConnect(cfg, rt), nil
	}
}

// ── mode builders ────────────────────────────────────────────────────

func buildConnect(cfg *config.Config, rt Runtime) Mode {
	m := &ConnectMode{
		Runtime:     rt,
		Host:        cfg.Host,
		Port:        cfg.Port,
		SourceBound: cfg.SourceBound(),
		LocalHost:   cfg.BindHost(),
		LocalPort:   cfg.LocalPort,
		Timeout:     cfg.Timeout,
		Capability:  buildCapability(cfg, rt),
	}
	if cfg.Retries > 0 {
		m.Backoff = retry.ForConnect(cfg.Retries, config.DefaultRetryDelay, config.DefaultMaxRetryBackoff)
		m.Backoff.OnRetry = func(attempt int, err error, wait time.Duration) {
			rt.Logger.Warn("attempt %d failed: %v; retrying in %v", attempt, err, wait.Truncate(time.Millisecond))
		}
	}
	return m
}

func buildListen(cfg *config.Config, rt Runtime) Mode {
	return &ListenMode{
		Runtime:    rt,
		Host:       cfg.BindHost(),
		Port:       cfg.LocalPort,
		KeepOpen:   cfg.KeepOpen,
		Timeout:    cfg.Timeout,
		Capability: buildCapability(cfg, rt),
	}
}

func buildScan(cfg *config.Config, rt Runtime) *ScanMode {
	ports := cfg.AllPorts()
	if len(ports) == 0 && cfg.Port > 0 {
		ports = []int{cfg.Port}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultScanTimeout
	}

	return &ScanMode{
		Runtime:     rt,
		Host:        cfg.Host,
		LocalHost:   cfg.LocalHost,
		Ports:       ports,
		Timeout:     timeout,
		Concurrency: config.DefaultMaxConcurrentScans,
		Verbose:     cfg.Verbose,
	}
}

// ── shared helpers ───────────────────────────────────────────────────

// buildCapability selects the per-connection behaviour.
func buildCapability(cfg *config.Config, rt Runtime) capability.Capability {
	if cfg.Execute != "" || cfg.Command != "" {
		return &capability.Exec{
			Program: cfg.Execute,
			Command: cfg.Command,
		}
	}
	return &capability.Relay{Digest: rt.Digest}
}
