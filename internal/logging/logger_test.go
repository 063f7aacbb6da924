package logging

import (
	"os"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	// Write once; just ensuring no panic / basic functionality.
	log.Info("test_message_from_logging_test")
}

func TestNewLogger_VerboseTee(t *testing.T) {
	log, err := NewLogger(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewLogger verbose: %v", err)
	}
	defer func() { _ = log.Sync() }()

	// Debug is only enabled on the console core in verbose mode.
	log.Debug("verbose_debug_message")
	log.Info("verbose_info_message")
}
