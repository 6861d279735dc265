//go:build windows
// +build windows

package main

import "os"

// startPTYResizeWatcher is a no-op on Windows: there is no SIGWINCH to
// watch, so live resize propagation is skipped and only the initial PTY
// size is set.
func startPTYResizeWatcher(_ *os.File) {
	// no-op
}
