package core

import (
	"bytes"
	"strings"
	"testing"
)

// captureCrash redirects crash output and exit for the duration of a test
func captureCrash(t *testing.T) (stdout, stderr *bytes.Buffer, code *int) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	code = new(int)
	*code = -1

	oldExit, oldOut, oldErr := crashExit, crashStdout, crashStderr
	crashExit = func(c int) { *code = c }
	crashStdout = stdout
	crashStderr = stderr
	t.Cleanup(func() {
		crashExit, crashStdout, crashStderr = oldExit, oldOut, oldErr
	})
	return stdout, stderr, code
}

func TestHandleCrashNilIsNoop(t *testing.T) {
	stdout, stderr, code := captureCrash(t)
	HandleCrash(nil)
	if *code != -1 || stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("Expected no action for nil panic, got code=%d out=%q err=%q", *code, stdout, stderr)
	}
}

func TestHandleCrashUsesRestorer(t *testing.T) {
	stdout, stderr, code := captureCrash(t)

	restored := 0
	unregister := RegisterRestorer(func() { restored++ })
	defer unregister()

	HandleCrash("boom")

	if restored != 1 {
		t.Errorf("Expected restorer to run once, ran %d", restored)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no emergency reset when a restorer is registered, got %q", stdout)
	}
	if !strings.Contains(stderr.String(), "CRASH DETECTED: boom") {
		t.Errorf("Expected crash banner, got %q", stderr)
	}
	if !strings.Contains(stderr.String(), "Stack Trace:") {
		t.Error("Expected stack trace in output")
	}
	if *code != 1 {
		t.Errorf("Expected exit code 1, got %d", *code)
	}
}

func TestHandleCrashFallsBackToEmergencyReset(t *testing.T) {
	stdout, _, code := captureCrash(t)

	unregister := RegisterRestorer(func() { t.Error("unregistered restorer ran") })
	unregister()
	unregister() // idempotent

	HandleCrash("late")

	if !strings.Contains(stdout.String(), "\x1b[0m") {
		t.Errorf("Expected SGR reset in emergency output, got %q", stdout)
	}
	if *code != 1 {
		t.Errorf("Expected exit code 1, got %d", *code)
	}
}

func TestGoRecoversPanic(t *testing.T) {
	_, stderr, _ := captureCrash(t)

	exited := make(chan int, 1)
	crashExit = func(c int) { exited <- c }

	Go(func() { panic("worker") })

	if c := <-exited; c != 1 {
		t.Errorf("Expected exit code 1, got %d", c)
	}
	if !strings.Contains(stderr.String(), "CRASH DETECTED: worker") {
		t.Errorf("Expected crash banner, got %q", stderr)
	}
}
