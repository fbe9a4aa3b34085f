//go:build !linux

package terminal

// resetTerminalMode is a no-op where termios ioctls are not wired; Close restores the saved state
func resetTerminalMode() {}
