//go:build !unix && !windows

package transport

func classifyErrno(error) (ReadClass, bool) { return ReadFatal, false }

func errnoCode(error) int { return 0 }
