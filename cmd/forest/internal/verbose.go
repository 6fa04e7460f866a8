package internal

import "sync/atomic"

var verbose atomic.Bool

// SetVerbose records whether verbose output was requested.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose reports whether verbose output was requested.
func IsVerbose() bool {
	return verbose.Load()
}
