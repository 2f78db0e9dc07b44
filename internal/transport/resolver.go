package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	ncerr "tcpport/internal/errors"
)

// ResolvedAddress is a single IPv4 address and port.
type ResolvedAddress struct {
	IP   net.IP // always 4 bytes
	Port int
}

// String returns "a.b.c.d:port".
func (a ResolvedAddress) String() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(a.Port))
}

// TCPAddr converts a to the net package form.
func (a ResolvedAddress) TCPAddr() *net.TCPAddr {
	return &net.TCPAddr{IP: a.IP, Port: a.Port}
}

// LookupFunc returns every candidate address for host.  Its signature
// matches (*net.Resolver).LookupIPAddr.
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

// HostResolver resolves names and literals to the first IPv4 candidate.
// The zero value uses net.DefaultResolver.
type HostResolver struct {
	Lookup LookupFunc
}

// NewHostResolver returns a resolver backed by net.DefaultResolver.
func NewHostResolver() *HostResolver {
	return &HostResolver{Lookup: net.DefaultResolver.LookupIPAddr}
}

// Resolve returns the first IPv4 candidate of host, paired with port.
// IPv6 candidates are skipped even when they come first.
func (r *HostResolver) Resolve(ctx context.Context, host string, port int) (ResolvedAddress, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	if host == "" {
		return ResolvedAddress{}, ncerr.Wrap(ncerr.ErrResolution, "lookup", addr, 0,
			fmt.Errorf("empty host"))
	}
	if port < 0 || port > 65535 {
		return ResolvedAddress{}, ncerr.Wrap(ncerr.ErrResolution, "lookup", addr, 0,
			fmt.Errorf("port %d out of range 0-65535", port))
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ResolvedAddress{IP: ip4, Port: port}, nil
		}
		return ResolvedAddress{}, ncerr.Wrap(ncerr.ErrAddressNotFound, "lookup", addr, 0, nil)
	}

	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver.LookupIPAddr
	}
	candidates, err := lookup(ctx, host)
	if err != nil {
		return ResolvedAddress{}, ncerr.Wrap(ncerr.ErrResolution, "lookup", addr, ErrorCode(err), err)
	}
	for _, c := range candidates {
		if ip4 := c.IP.To4(); ip4 != nil {
			return ResolvedAddress{IP: ip4, Port: port}, nil
		}
	}
	return ResolvedAddress{}, ncerr.Wrap(ncerr.ErrAddressNotFound, "lookup", addr, 0, nil)
}

// NumericOnly is a LookupFunc that refuses every name, so only address
// literals resolve.
func NumericOnly(_ context.Context, host string) ([]net.IPAddr, error) {
	return nil, fmt.Errorf("cannot parse %q as an IP address (DNS disabled with -n)", host)
}

// HostName returns the name of the local machine.
func HostName() (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}
	return name, nil
}

// LookupIPv4 returns the first IPv4 address of name in dotted-decimal
// form.
func LookupIPv4(ctx context.Context, r Resolver, name string) (string, error) {
	a, err := r.Resolve(ctx, name, 0)
	if err != nil {
		return "", err
	}
	return a.IP.String(), nil
}
