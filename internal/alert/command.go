package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// CommandSink runs an external command on every alert, for hooking
// home-automation or notification tooling into the monitor. The event is
// passed to the command as JSON on stdin.
type CommandSink struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCommandSink creates a CommandSink running the given command with a
// per-invocation timeout.
func NewCommandSink(command string, args []string, timeout time.Duration) *CommandSink {
	return &CommandSink{
		command: command,
		args:    args,
		timeout: timeout,
	}
}

// Name implements Sink.
func (s *CommandSink) Name() string { return "command" }

// Notify implements Sink.
func (s *CommandSink) Notify(at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command, s.args...)

	event, err := json.Marshal(map[string]any{
		"event":    "eye_rubbing",
		"fired_at": at.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}
	cmd.Stdin = bytes.NewReader(event)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("alert command timeout after %s", s.timeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("alert command failed: %w, stderr: %s", err, stderr.String())
		}
		return fmt.Errorf("alert command failed: %w", err)
	}

	return nil
}
