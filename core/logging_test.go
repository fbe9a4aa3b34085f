package core

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging(t *testing.T) {
	origOutput := log.Writer()
	origFlags := log.Flags()
	t.Cleanup(func() {
		log.SetOutput(origOutput)
		log.SetFlags(origFlags)
	})

	t.Run("empty path discards", func(t *testing.T) {
		f, err := SetupLogging("")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if f != nil {
			t.Error("Expected nil file for discard mode")
		}
		if log.Writer() != io.Discard {
			t.Error("Expected log output to be io.Discard")
		}
	})

	t.Run("creates directory and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "gridterm.log")
		f, err := SetupLogging(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		defer f.Close()

		log.Print("hello from test")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello from test") {
			t.Errorf("Expected log line in file, got %q", data)
		}
	})

	t.Run("unwritable directory", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := SetupLogging(filepath.Join(blocker, "sub", "x.log"))
		if err == nil {
			t.Error("Expected error when directory cannot be created")
		}
		if log.Writer() != io.Discard {
			t.Error("Expected discard fallback after failure")
		}
	})
}
