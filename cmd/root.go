// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"tcpport/config"
	"tcpport/internal/capability"
	"tcpport/internal/core"
	"tcpport/internal/metrics"
	"tcpport/internal/transport"
	"tcpport/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X tcpport/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// stdio is the process I/O a run works against.
type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Execute parses args and runs the appropriate tcpport mode.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func execute(ctx context.Context, args []string, std stdio) error {
	cfg := &config.Config{}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("tcpport", flag.ContinueOnError)
	fs.SetOutput(std.err)

	// ── connection ───────────────────────────────────────────────
	fs.BoolVarP(&cfg.Listen, "listen", "l", cfg.Listen, "Listen mode")
	fs.IntVarP(&cfg.LocalPort, "port", "p", cfg.LocalPort, "Local port number")
	fs.StringVarP(&cfg.LocalHost, "source", "s", cfg.LocalHost, "Local source or bind address")
	fs.BoolVarP(&cfg.KeepOpen, "keep-open", "k", cfg.KeepOpen, "Accept multiple connections (with -l)")
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", cfg.NoDNS, "Numeric-only, no DNS resolution")
	fs.BoolVarP(&cfg.ZeroIO, "zero-io", "z", cfg.ZeroIO, "Zero-I/O mode (port scanning)")

	timeoutSec := int(cfg.Timeout / time.Second)
	fs.IntVarP(&timeoutSec, "timeout", "w", timeoutSec, "Timeout in seconds")
	fs.IntVarP(&cfg.Retries, "retries", "r", cfg.Retries, "Connect retries after the first attempt")

	// ── execution ────────────────────────────────────────────────
	fs.StringVarP(&cfg.Execute, "exec", "e", "", "Execute program after connect")
	fs.StringVarP(&cfg.Command, "command", "c", "", "Execute shell command after connect")

	// ── lookups ──────────────────────────────────────────────────
	fs.StringVar(&cfg.Resolve, "resolve", "", "Print the IPv4 address of a host name and exit")
	fs.BoolVar(&cfg.HostName, "hostname", false, "Print the local host name and exit")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.Digest, "digest", cfg.Digest, "Print BLAKE2b-256 digests of relayed data on exit")
	fs.BoolVar(&cfg.Stats, "stats", false, "Print connection statistics as JSON on exit")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate options and exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(std.err, fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(std.err, fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(std.out, "tcpport %s\n", version)
		return nil
	}

	cfg.Timeout = time.Duration(timeoutSec) * time.Second

	// ── positional arguments ─────────────────────────────────────
	if !cfg.LookupOnly() {
		if err := parsePositional(cfg, fs.Args()); err != nil {
			return err
		}
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DryRun {
		fmt.Fprintln(std.err, "configuration OK")
		return nil
	}

	// ── socket subsystem ─────────────────────────────────────────
	sub := transport.DefaultSubsystem()
	if err := sub.Acquire(); err != nil {
		return err
	}
	defer sub.Release() //nolint:errcheck

	logger := util.NewLogger(cfg.Verbose)
	logger.SetOutput(std.err)

	if cfg.LookupOnly() {
		return lookup(ctx, cfg, std.out)
	}

	if cfg.Listen && !cfg.KeepOpen && isTerminal(std.in) {
		logger.Verbose("stdin is a terminal; type to send, Ctrl-D to half-close")
	}

	// ── build and run ────────────────────────────────────────────
	rt := core.Runtime{
		Logger:  logger,
		Metrics: metrics.New(),
		Digest:  capability.NewDigest(),
		Stdin:   std.in,
		Stdout:  std.out,
	}
	mode, err := core.Build(cfg, rt)
	if err != nil {
		return err
	}

	runErr := mode.Run(ctx)

	if cfg.Digest {
		fmt.Fprintln(std.err, rt.Digest.Sum())
	}
	if cfg.Stats {
		fmt.Fprintln(std.err, rt.Metrics.JSON())
	}
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

func lookup(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.HostName {
		name, err := transport.HostName()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, name)
		return nil
	}

	var r transport.Resolver = transport.NewHostResolver()
	if cfg.NoDNS {
		r = &transport.HostResolver{Lookup: transport.NumericOnly}
	}
	ip, err := transport.LookupIPv4(ctx, r, cfg.Resolve)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ip)
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Listen {
		switch len(remaining) {
		case 0: // tcpport -l -p PORT
		case 1:
			cfg.LocalHost = remaining[0]
		case 2:
			cfg.LocalHost = remaining[0]
			pr, err := config.ParsePortSpec(remaining[1])
			if err != nil {
				return fmt.Errorf("port: %w", err)
			}
			cfg.LocalPort = pr.Start
		default:
			return fmt.Errorf("too many arguments for listen mode")
		}
		return nil
	}

	// Connect / scan mode: host port [port …]
	switch len(remaining) {
	case 0:
	case 1:
		cfg.Host = remaining[0]
	default:
		cfg.Host = remaining[0]
		for _, arg := range remaining[1:] {
			pr, err := config.ParsePortSpec(arg)
			if err != nil {
				return fmt.Errorf("port %q: %w", arg, err)
			}
			cfg.Ports = append(cfg.Ports, pr)
		}
		cfg.Port = cfg.Ports[0].Start
	}
	return nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `tcpport - TCP connectivity tool v%s

Usage:
  tcpport [options] <host> <port>              Connect
  tcpport -l -p <port> [options]               Listen
  tcpport -z [options] <host> <ports...>       Scan
  tcpport --resolve <name> | --hostname        Name lookups

Options:
`, version)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Examples:
  tcpport example.com 80                       TCP connect
  tcpport -s 127.0.0.1 -p 4000 db.local 5432   Connect from a fixed source
  tcpport -l -p 8080                           Listen on 8080
  tcpport -vz host.example.com 20-25 80 443    Port scan
  echo "hello" | tcpport host.example.com 9000 Pipe data
`)
}
