package config

import (
	"errors"
	"testing"

	ncerr "tcpport/internal/errors"
)

// ── ParsePortSpec ────────────────────────────────────────────────────

func TestParsePortSpec(t *testing.T) {
	tests := []struct {
		input     string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{"80", 80, 80, false},
		{"443", 443, 443, false},
		{"80-90", 80, 90, false},
		{"1-65535", 1, 65535, false},
		{"0", 0, 0, true},
		{"70000", 0, 0, true},
		{"abc", 0, 0, true},
		{"90-80", 0, 0, true}, // reversed range
		{"0-100", 0, 0, true}, // start below 1
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pr, err := ParsePortSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePortSpec(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if pr.Start != tt.wantStart || pr.End != tt.wantEnd {
				t.Errorf("got {%d, %d}, want {%d, %d}", pr.Start, pr.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// ── PortRange.Expand ─────────────────────────────────────────────────

func TestPortRangeExpand(t *testing.T) {
	pr := PortRange{Start: 20, End: 25}
	got := pr.Expand()
	want := []int{20, 21, 22, 23, 24, 25}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAllPorts(t *testing.T) {
	cfg := Config{Ports: []PortRange{{Start: 22, End: 22}, {Start: 80, End: 81}}}
	got := cfg.AllPorts()
	if len(got) != 3 || got[0] != 22 || got[1] != 80 || got[2] != 81 {
		t.Errorf("AllPorts() = %v", got)
	}
}

// ── Helpers ──────────────────────────────────────────────────────────

func TestBindHost(t *testing.T) {
	if got := (&Config{}).BindHost(); got != DefaultBindAddress {
		t.Errorf("BindHost() = %q, want %q", got, DefaultBindAddress)
	}
	if got := (&Config{LocalHost: "10.0.0.5"}).BindHost(); got != "10.0.0.5" {
		t.Errorf("BindHost() = %q", got)
	}
}

func TestSourceBound(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"plain connect", Config{Host: "x", Port: 80}, false},
		{"fixed source port", Config{Host: "x", Port: 80, LocalPort: 5000}, true},
		{"source address only", Config{Host: "x", Port: 80, LocalHost: "127.0.0.1"}, true},
		{"listen", Config{Listen: true, LocalPort: 5000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.SourceBound(); got != tt.want {
				t.Errorf("SourceBound() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ── Config.Validate ──────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid connect",
			cfg:     Config{Host: "example.com", Port: 80},
			wantErr: false,
		},
		{
			name:    "valid source-bound connect",
			cfg:     Config{Host: "example.com", Port: 80, LocalHost: "127.0.0.1", LocalPort: 5000},
			wantErr: false,
		},
		{
			name:    "valid connect with retries",
			cfg:     Config{Host: "example.com", Port: 80, Retries: 3},
			wantErr: false,
		},
		{
			name:    "valid listen",
			cfg:     Config{Listen: true, LocalPort: 8080},
			wantErr: false,
		},
		{
			name:    "valid keep-open listen",
			cfg:     Config{Listen: true, LocalPort: 8080, KeepOpen: true},
			wantErr: false,
		},
		{
			name:    "valid scan",
			cfg:     Config{Host: "x", Ports: []PortRange{{Start: 1, End: 10}}, ZeroIO: true},
			wantErr: false,
		},
		{
			name:    "resolve only",
			cfg:     Config{Resolve: "localhost"},
			wantErr: false,
		},
		{
			name:    "hostname only",
			cfg:     Config{HostName: true},
			wantErr: false,
		},
		{
			name:    "resolve and hostname",
			cfg:     Config{Resolve: "localhost", HostName: true},
			wantErr: true,
		},
		{
			name:    "listen no port",
			cfg:     Config{Listen: true},
			wantErr: true,
		},
		{
			name:    "listen with retries",
			cfg:     Config{Listen: true, LocalPort: 80, Retries: 2},
			wantErr: true,
		},
		{
			name:    "connect no host",
			cfg:     Config{Port: 80},
			wantErr: true,
		},
		{
			name:    "connect no port",
			cfg:     Config{Host: "x"},
			wantErr: true,
		},
		{
			name:    "keep-open without listen",
			cfg:     Config{Host: "x", Port: 80, KeepOpen: true},
			wantErr: true,
		},
		{
			name:    "exec conflict",
			cfg:     Config{Host: "x", Port: 80, Execute: "a", Command: "b"},
			wantErr: true,
		},
		{
			name:    "listen + scan",
			cfg:     Config{Listen: true, LocalPort: 80, ZeroIO: true},
			wantErr: true,
		},
		{
			name:    "scan + exec",
			cfg:     Config{Host: "x", Port: 80, ZeroIO: true, Command: "id"},
			wantErr: true,
		},
		{
			name:    "scan from fixed port",
			cfg:     Config{Host: "x", Port: 80, ZeroIO: true, LocalPort: 5000},
			wantErr: true,
		},
		{
			name:    "digest + exec",
			cfg:     Config{Host: "x", Port: 80, Digest: true, Execute: "/bin/cat"},
			wantErr: true,
		},
		{
			name:    "negative retries",
			cfg:     Config{Host: "x", Port: 80, Retries: -1},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			cfg:     Config{Host: "x", Port: 80, Timeout: -1},
			wantErr: true,
		},
		{
			name:    "local port out of range",
			cfg:     Config{Host: "x", Port: 80, LocalPort: 70000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReturnsConfigError(t *testing.T) {
	err := (&Config{Listen: true}).Validate()

	var ce *ncerr.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if ce.Field != "port" {
		t.Errorf("Field = %q, want port", ce.Field)
	}
	if ce.Hint == "" {
		t.Error("expected a hint")
	}
}
