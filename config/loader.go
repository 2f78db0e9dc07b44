package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the TCPPORT_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TCPPORT_"

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  Call it BEFORE flag parsing
// and use the result as flag defaults so flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("PORT"); v > 0 {
		cfg.LocalPort = v
	}
	if v := os.Getenv(EnvPrefix + "SOURCE"); v != "" {
		cfg.LocalHost = v
	}
	if envBool("LISTEN") {
		cfg.Listen = true
	}
	if envBool("KEEP_OPEN") {
		cfg.KeepOpen = true
	}
	if envBool("NO_DNS") {
		cfg.NoDNS = true
	}
	if v := envInt("TIMEOUT"); v > 0 {
		cfg.Timeout = secondsDuration(v)
	}
	if v := envInt("RETRIES"); v > 0 {
		cfg.Retries = v
	}
	if envBool("DIGEST") {
		cfg.Digest = true
	}

	// Output
	if v := envInt("VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(EnvPrefix + key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
