package errors

import (
	"fmt"
	"io"
	"syscall"
	"testing"
)

func TestSocketError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *SocketError
		want string
	}{
		{
			name: "with code",
			err:  Wrap(ErrConnect, "connect", "127.0.0.1:9000", 111, fmt.Errorf("connection refused")),
			want: "connect 127.0.0.1:9000: connection refused (code 111)",
		},
		{
			name: "without code",
			err:  Wrap(ErrResolution, "lookup", "nowhere.invalid:80", 0, fmt.Errorf("no such host")),
			want: "lookup nowhere.invalid:80: no such host",
		},
		{
			name: "nil cause falls back to kind",
			err:  Wrap(ErrAddressNotFound, "lookup", "v6only:80", 0, nil),
			want: "lookup v6only:80: no IPv4 TCP address found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSocketError_IsKind(t *testing.T) {
	err := fmt.Errorf("dialing: %w", Wrap(ErrBind, "bind", "0.0.0.0:80", 13, syscall.EACCES))

	if !Is(err, ErrBind) {
		t.Error("should match ErrBind")
	}
	if Is(err, ErrConnect) {
		t.Error("should not match ErrConnect")
	}
	if !Is(err, syscall.EACCES) {
		t.Error("should unwrap to the OS error")
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(io.EOF); k != nil {
		t.Errorf("KindOf(io.EOF) = %v, want nil", k)
	}
	err := fmt.Errorf("outer: %w", Wrap(ErrListen, "listen", ":1", 0, io.ErrClosedPipe))
	if k := KindOf(err); k != ErrListen {
		t.Errorf("KindOf = %v, want ErrListen", k)
	}
}

func TestIsSetupFailure(t *testing.T) {
	tests := []struct {
		kind error
		want bool
	}{
		{ErrResolution, true},
		{ErrAddressNotFound, true},
		{ErrBind, true},
		{ErrConnect, true},
		{ErrListen, true},
		{ErrAccept, true},
		{ErrSend, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			err := Wrap(tt.kind, "op", "addr", 0, nil)
			if got := IsSetupFailure(err); got != tt.want {
				t.Errorf("IsSetupFailure() = %v, want %v", got, tt.want)
			}
		})
	}
	if IsSetupFailure(ErrNotOpen) {
		t.Error("ErrNotOpen is not a setup failure")
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "port",
				Value:   99999,
				Message: "out of range 1-65535",
				Hint:    "use a port between 1 and 65535",
			},
			want: "config: --port=99999: out of range 1-65535\n  hint: use a port between 1 and 65535",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "port",
				Message: "required with -l",
			},
			want: "config: --port: required with -l",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	sentinels := []error{
		ErrResolution, ErrAddressNotFound, ErrBind, ErrConnect,
		ErrListen, ErrAccept, ErrSend, ErrNotOpen, ErrAlreadyOpen,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}
