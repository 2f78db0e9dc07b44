// Package config defines the runtime configuration for tcpport and
// provides helpers for parsing port ranges.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ncerr "tcpport/internal/errors"
)

// Config holds every tuneable for a single tcpport run.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host      string
	Port      int         // primary destination port
	Ports     []PortRange // all destination port specs (scanning)
	LocalHost string      // -s: local bind address
	LocalPort int         // -p: local bind port
	Listen    bool
	KeepOpen  bool
	NoDNS     bool
	Timeout   time.Duration
	Retries   int // connect attempts beyond the first

	// ── Execution ────────────────────────────────────────────────────
	Execute string // -e: program path
	Command string // -c: shell command

	// ── Lookups ──────────────────────────────────────────────────────
	Resolve  string // --resolve: print the IPv4 address of this name
	HostName bool   // --hostname: print the local host name

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	ZeroIO  bool
	Digest  bool
	Stats   bool
	DryRun  bool
}

// BindHost returns the local address to bind in listen mode, or for a
// source-bound connect.
func (c *Config) BindHost() string {
	if c.LocalHost != "" {
		return c.LocalHost
	}
	return DefaultBindAddress
}

// SourceBound reports whether connect mode must bind a local endpoint.
func (c *Config) SourceBound() bool {
	return !c.Listen && (c.LocalPort != 0 || c.LocalHost != "")
}

// LookupOnly reports whether the run only answers a name query.
func (c *Config) LookupOnly() bool {
	return c.Resolve != "" || c.HostName
}

// ── Port helpers ─────────────────────────────────────────────────────

// PortRange is an inclusive start–end pair.
type PortRange struct {
	Start int
	End   int
}

// Expand returns every port in the range.
func (pr PortRange) Expand() []int {
	out := make([]int, 0, pr.End-pr.Start+1)
	for p := pr.Start; p <= pr.End; p++ {
		out = append(out, p)
	}
	return out
}

// AllPorts flattens every PortRange into a single slice.
func (c *Config) AllPorts() []int {
	var out []int
	for _, pr := range c.Ports {
		out = append(out, pr.Expand()...)
	}
	return out
}

// ParsePortSpec accepts "80" or "80-90".
func ParsePortSpec(spec string) (PortRange, error) {
	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return PortRange{}, fmt.Errorf("invalid port range start %q", parts[0])
		}
		end, err := strconv.Atoi(parts[1])
		if err != nil {
			return PortRange{}, fmt.Errorf("invalid port range end %q", parts[1])
		}
		if start < 1 || end > 65535 || start > end {
			return PortRange{}, fmt.Errorf("invalid port range %d-%d", start, end)
		}
		return PortRange{Start: start, End: end}, nil
	}

	port, err := strconv.Atoi(spec)
	if err != nil {
		return PortRange{}, fmt.Errorf("invalid port %q", spec)
	}
	if port < 1 || port > 65535 {
		return PortRange{}, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return PortRange{Start: port, End: port}, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Failures are *errors.ConfigError values carrying a usage hint.
func (c *Config) Validate() error {
	if c.LookupOnly() {
		if c.Resolve != "" && c.HostName {
			return &ncerr.ConfigError{Field: "resolve", Value: c.Resolve,
				Message: "--resolve and --hostname are mutually exclusive"}
		}
		return nil
	}

	if c.LocalPort < 0 || c.LocalPort > 65535 {
		return &ncerr.ConfigError{Field: "port", Value: c.LocalPort,
			Message: "local port out of range 1-65535"}
	}
	if c.Timeout < 0 {
		return &ncerr.ConfigError{Field: "timeout", Value: c.Timeout,
			Message: "timeout must not be negative"}
	}
	if c.Retries < 0 {
		return &ncerr.ConfigError{Field: "retries", Value: c.Retries,
			Message: "retries must not be negative"}
	}

	if c.Listen {
		if c.LocalPort == 0 {
			return &ncerr.ConfigError{Field: "port",
				Message: "listen mode requires a local port",
				Hint:    "pass -p <port>, e.g. tcpport -l -p 9000"}
		}
		if c.ZeroIO {
			return &ncerr.ConfigError{Field: "zero-io",
				Message: "listen mode and zero-I/O mode are mutually exclusive"}
		}
		if c.Retries > 0 {
			return &ncerr.ConfigError{Field: "retries", Value: c.Retries,
				Message: "accept is never retried",
				Hint:    "use -k to accept one connection after another"}
		}
	} else {
		if c.Host == "" {
			return &ncerr.ConfigError{Field: "host",
				Message: "hostname is required",
				Hint:    "use --help for usage"}
		}
		if c.Port == 0 && len(c.Ports) == 0 {
			return &ncerr.ConfigError{Field: "port",
				Message: "destination port is required",
				Hint:    "give it after the host, e.g. tcpport example.com 80"}
		}
		if c.KeepOpen {
			return &ncerr.ConfigError{Field: "keep-open",
				Message: "-k only applies to listen mode",
				Hint:    "add -l -p <port>"}
		}
		if c.ZeroIO && c.LocalPort != 0 {
			return &ncerr.ConfigError{Field: "port", Value: c.LocalPort,
				Message: "a fixed source port cannot be shared by concurrent scans"}
		}
	}

	if c.Execute != "" && c.Command != "" {
		return &ncerr.ConfigError{Field: "exec",
			Message: "-e and -c are mutually exclusive"}
	}
	if c.ZeroIO && (c.Execute != "" || c.Command != "") {
		return &ncerr.ConfigError{Field: "zero-io",
			Message: "zero-I/O mode does not run programs"}
	}
	if c.Digest && (c.Execute != "" || c.Command != "") {
		return &ncerr.ConfigError{Field: "digest",
			Message: "--digest covers the stdin/stdout relay only",
			Hint:    "drop -e/-c or --digest"}
	}

	return nil
}
