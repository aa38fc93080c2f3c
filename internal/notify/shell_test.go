package notify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"serv00_keepalive/internal/logbus"
)

func TestRunShellCommand(t *testing.T) {
	bus := logbus.New()
	defer bus.Close()

	marker := filepath.Join(t.TempDir(), "ran")
	if ok := RunShellCommand(context.Background(), bus, "touch "+marker); !ok {
		t.Fatal("expected command to succeed")
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("command did not run: %v", err)
	}
}

func TestRunShellCommandFailure(t *testing.T) {
	bus := logbus.New()
	defer bus.Close()

	if ok := RunShellCommand(context.Background(), bus, "exit 3"); ok {
		t.Fatal("expected non-zero exit to report failure")
	}
}

func TestRunShellCommandEmpty(t *testing.T) {
	bus := logbus.New()
	defer bus.Close()

	if ok := RunShellCommand(context.Background(), bus, "   "); ok {
		t.Fatal("blank command must not run")
	}
}
