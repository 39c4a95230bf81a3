package alert

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestCommandSink_PassesEventOnStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shell script")
	}

	outFile := filepath.Join(t.TempDir(), "event.json")
	sink := NewCommandSink("sh", []string{"-c", "cat > " + outFile}, 5*time.Second)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := sink.Notify(at); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("reading captured event: %v", err)
	}
	if !strings.Contains(string(data), `"event":"eye_rubbing"`) {
		t.Errorf("captured event missing type: %s", data)
	}
	if !strings.Contains(string(data), "2025-06-01T12:00:00Z") {
		t.Errorf("captured event missing timestamp: %s", data)
	}
}

func TestCommandSink_ReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shell script")
	}

	sink := NewCommandSink("sh", []string{"-c", "echo broken >&2; exit 1"}, 5*time.Second)

	err := sink.Notify(time.Now())
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error does not carry stderr: %v", err)
	}
}

func TestCommandSink_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shell script")
	}

	sink := NewCommandSink("sh", []string{"-c", "sleep 5"}, 100*time.Millisecond)

	err := sink.Notify(time.Now())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}
