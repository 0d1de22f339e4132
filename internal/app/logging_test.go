package app

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging_WritesPrefixedLines(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("")
	})
	path := filepath.Join(t.TempDir(), "state", "tray.log")

	closer, err := SetupLogging(path, false)
	if err != nil {
		t.Fatalf("SetupLogging: %v", err)
	}
	log.Printf("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); !strings.HasPrefix(got, LogPrefix) || !strings.Contains(got, "hello") {
		t.Fatalf("log file = %q, want prefixed hello line", got)
	}
}
