package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"time"
)

// Executor handles the execution of plugins with timeout support.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Execute runs a plugin against a gesture-action Invocation and returns the
// Outcome it reports. It rejects the invocation up front if the plugin's
// manifest does not declare ActionName, rather than letting an unsupported
// action silently reach the subprocess; otherwise it creates a context with
// the configured timeout, marshals the invocation to JSON, sends it to the
// plugin via stdin, and parses stdout as an Outcome.
func (e *Executor) Execute(plugin *Plugin, inv *Invocation) (*Outcome, error) {
	if !plugin.HandlesAction(inv.ActionName) {
		return nil, fmt.Errorf("%w: %q does not handle %q", ErrActionNotSupported, plugin.Manifest.Name, inv.ActionName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path

	invJSON, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invocation: %w", err)
	}
	cmd.Stdin = bytes.NewReader(invJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		log.Printf("plugin: %q action %q for gesture %q timed out after %dms", plugin.Manifest.Name, inv.ActionName, inv.GestureName, e.timeoutMs)
		return nil, fmt.Errorf("plugin execution timeout after %dms", e.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return nil, fmt.Errorf("plugin execution failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("plugin execution failed: %w", err)
	}

	var outcome Outcome
	if err := json.Unmarshal(stdout.Bytes(), &outcome); err != nil {
		return nil, fmt.Errorf("failed to parse plugin outcome: %w, stdout: %s", err, stdout.String())
	}

	if !outcome.Success {
		log.Printf("plugin: %q action %q for gesture %q reported failure: %s", plugin.Manifest.Name, inv.ActionName, inv.GestureName, outcome.Error)
	}

	return &outcome, nil
}
