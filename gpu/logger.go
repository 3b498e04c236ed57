//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/glyphbrush"
)

// slogger returns the package logger, shared with glyphbrush.SetLogger.
func slogger() *slog.Logger { return glyphbrush.Logger() }
