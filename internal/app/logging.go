package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogPrefix tags every line the tray writes.
const LogPrefix = "[keyrx-tray] "

// SetupLogging sends the standard logger to path and, when stderr is set, to
// the terminal as well. The returned closer releases the file. An empty path
// logs to stderr only.
func SetupLogging(path string, stderr bool) (io.Closer, error) {
	log.SetPrefix(LogPrefix)
	log.SetFlags(log.LstdFlags)
	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if stderr {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	} else {
		log.SetOutput(f)
	}
	return f, nil
}
