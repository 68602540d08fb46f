// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"log/slog"
	"sync/atomic"
)

var (
	discard = slog.New(slog.DiscardHandler)
	logger  atomic.Pointer[slog.Logger]
)

// slogger returns the logger installed by SetLogger, or a discarding one.
func slogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return discard
}

// SetLogger installs the logger for GPU resource events. docview.SetLogger
// calls it; nil restores silence.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
