package middleware_test

import (
	"bytes"
	"log/slog"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
)

// testLogger writes text entries at debug and above to buf.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func discardLogger() *slog.Logger {
	return logging.Discard()
}
