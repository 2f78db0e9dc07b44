//go:build !windows

package transport

func platformStartup() error { return nil }

func platformCleanup() error { return nil }
