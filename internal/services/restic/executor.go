package restic

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/fgeck/frogbackup/internal/models"
)

// CommandExecutor allows substituting subprocess execution in tests.
type CommandExecutor interface {
	// Stream runs cmd, copying stdout to out line by line as it arrives, and
	// returns the stderr text once the process has exited.
	Stream(ctx context.Context, cmd models.Command, out io.Writer) (*models.CommandResult, error)
	// Capture runs cmd and returns its stdout.
	Capture(ctx context.Context, cmd models.Command) ([]byte, *models.CommandResult, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

func (e *DefaultExecutor) command(ctx context.Context, c models.Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	return cmd
}

// Stream runs a command with live stdout. A non-zero exit status is reported
// in the result, not as an error.
func (e *DefaultExecutor) Stream(ctx context.Context, c models.Command, out io.Writer) (*models.CommandResult, error) {
	cmd := e.command(ctx, c)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout of %s: %w", c.Name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	reader := bufio.NewReader(stdout)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			if _, err := io.WriteString(out, line); err != nil {
				_, _ = io.Copy(io.Discard, reader)
				_ = cmd.Wait()
				return nil, fmt.Errorf("writing output of %s: %w", c.Name, err)
			}
		}
		if readErr != nil {
			break
		}
	}

	return finish(cmd.Wait(), &stderr)
}

// Capture runs a command and collects its stdout.
func (e *DefaultExecutor) Capture(ctx context.Context, c models.Command) ([]byte, *models.CommandResult, error) {
	cmd := e.command(ctx, c)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	result, err := finish(cmd.Wait(), &stderr)
	if err != nil {
		return nil, nil, err
	}
	return stdout.Bytes(), result, nil
}

func finish(waitErr error, stderr *bytes.Buffer) (*models.CommandResult, error) {
	result := &models.CommandResult{Stderr: stderr.String()}
	if waitErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return nil, waitErr
}
