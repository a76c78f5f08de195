// Package restic drives the restic command line tool.
package restic

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fgeck/frogbackup/internal/models"
	"github.com/rs/zerolog"
)

const (
	// PasswordEnv carries the repository password to restic.
	PasswordEnv = "RESTIC_PASSWORD"

	// ExitWrongPassword is the exit status restic uses for a rejected password.
	ExitWrongPassword = 12

	wrongPasswordText = "wrong password"
	shortIDLen        = 8
)

// Service defines the interface for restic operations.
type Service interface {
	Forget(ctx context.Context, repo Repository, keepLast int, out io.Writer) (*models.CommandResult, error)
	Backup(ctx context.Context, repo Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error)
	Snapshots(ctx context.Context, repo Repository) (string, error)
	Diff(ctx context.Context, repo Repository, pair models.SnapshotPair, out io.Writer) (*models.CommandResult, error)
	ForgetLatest(ctx context.Context, repo Repository, out io.Writer) (*models.CommandResult, error)
}

// Repository identifies a restic repository and the password that opens it.
type Repository struct {
	Path     string
	Password string
}

func (r Repository) env() []string {
	return []string{fmt.Sprintf("%s=%s", PasswordEnv, r.Password)}
}

// Impl implements the Service interface.
type Impl struct {
	executor CommandExecutor
	binary   string
	logger   zerolog.Logger
}

// New creates a new restic service running binary.
func New(logger zerolog.Logger, binary string) *Impl {
	return NewWithExecutor(logger, binary, &DefaultExecutor{})
}

// NewWithExecutor creates a new restic service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, binary string, executor CommandExecutor) *Impl {
	return &Impl{
		executor: executor,
		binary:   binary,
		logger:   logger,
	}
}

func (s *Impl) command(repo Repository, args ...string) models.Command {
	return models.Command{
		Name: s.binary,
		Args: append([]string{"-r", repo.Path}, args...),
		Env:  repo.env(),
	}
}

func (s *Impl) stream(ctx context.Context, cmd models.Command, out io.Writer) (*models.CommandResult, error) {
	s.logger.Debug().Str("binary", cmd.Name).Strs("args", cmd.Args).Str("dir", cmd.Dir).Msg("running restic")

	result, err := s.executor.Stream(ctx, cmd, out)
	if err != nil {
		return nil, fmt.Errorf("restic %s: %w", cmd.Args[2], err)
	}

	s.logger.Debug().Int("exit_code", result.ExitCode).Bool("stderr", result.Stderr != "").Msg("restic finished")
	return result, nil
}

// Forget keeps the keepLast most recent snapshots and prunes the rest.
func (s *Impl) Forget(ctx context.Context, repo Repository, keepLast int, out io.Writer) (*models.CommandResult, error) {
	cmd := s.command(repo, "forget", "--keep-last", strconv.Itoa(keepLast), "--prune")
	return s.stream(ctx, cmd, out)
}

// Backup backs up the contents of loc.LocalPath, run from inside that directory.
func (s *Impl) Backup(ctx context.Context, repo Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error) {
	args := []string{"backup", ".", "--skip-if-unchanged"}

	for _, tag := range loc.Tags {
		args = append(args, "--tag", tag)
	}
	for _, pattern := range loc.Exclude {
		args = append(args, "--exclude", pattern)
	}

	cmd := s.command(repo, args...)
	cmd.Dir = loc.LocalPath
	return s.stream(ctx, cmd, out)
}

// Snapshots returns the plain snapshot listing of the repository.
func (s *Impl) Snapshots(ctx context.Context, repo Repository) (string, error) {
	cmd := s.command(repo, "snapshots")
	s.logger.Debug().Strs("args", cmd.Args).Msg("listing snapshots")

	output, result, err := s.executor.Capture(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to list snapshots: %w", err)
	}
	if result.ExitCode != 0 {
		s.logger.Warn().Int("exit_code", result.ExitCode).Str("stderr", result.Stderr).Msg("snapshot listing failed")
	}

	return string(output), nil
}

// Diff compares pair.Previous with pair.Latest.
func (s *Impl) Diff(ctx context.Context, repo Repository, pair models.SnapshotPair, out io.Writer) (*models.CommandResult, error) {
	cmd := s.command(repo, "diff", pair.Previous, pair.Latest)
	return s.stream(ctx, cmd, out)
}

// ForgetLatest removes the most recent snapshot and prunes its data.
func (s *Impl) ForgetLatest(ctx context.Context, repo Repository, out io.Writer) (*models.CommandResult, error) {
	cmd := s.command(repo, "forget", "latest", "--prune")
	return s.stream(ctx, cmd, out)
}

// ParseSnapshotListing extracts the short IDs of the two most recent
// snapshots from the table printed by `restic snapshots`:
//
//	ID        Time                 Host  Tags    Paths
//	--------------------------------------------------
//	1a2b3c4d  2024-05-01 10:00:00  nas   docs    /data
//	                                     weekly
//	5e6f7a8b  2024-05-02 10:00:00  nas           /data
//	--------------------------------------------------
//	2 snapshots
//
// Read bottom-up, the newest row is the third line and the one before it the
// fourth. With a single snapshot the fourth line is the header rule, which
// holds no ID. Extra tags and paths are printed on continuation rows with a
// blank ID column; when one sits at those offsets the two lowest rows that
// start with a snapshot ID are used instead. Fewer than two such rows means
// there is nothing to compare.
func ParseSnapshotListing(output string) (models.SnapshotPair, bool) {
	lines := strings.Split(strings.TrimRight(output, "\r\n"), "\n")
	if len(lines) < 4 {
		return models.SnapshotPair{}, false
	}

	latest := strings.TrimRight(lines[len(lines)-3], "\r")
	previous := strings.TrimRight(lines[len(lines)-4], "\r")

	latestID, latestOK := snapshotID(latest)
	previousID, previousOK := snapshotID(previous)
	if latestOK && previousOK {
		return models.SnapshotPair{Previous: previousID, Latest: latestID}, true
	}

	var ids []string
	for i := len(lines) - 1; i >= 0 && len(ids) < 2; i-- {
		if id, ok := snapshotID(strings.TrimRight(lines[i], "\r")); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return models.SnapshotPair{}, false
	}

	return models.SnapshotPair{Previous: ids[1], Latest: ids[0]}, true
}

// snapshotID returns the short ID a table row starts with. Continuation
// rows, rules, the header and the footer have none.
func snapshotID(line string) (string, bool) {
	if len(line) < shortIDLen {
		return "", false
	}
	if len(line) > shortIDLen && line[shortIDLen] != ' ' {
		return "", false
	}
	for i := 0; i < shortIDLen; i++ {
		c := line[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", false
		}
	}
	return line[:shortIDLen], true
}

// IsWrongPassword reports whether restic rejected the repository password.
// The exit status is checked first; the stderr text covers restic versions
// that exit with the generic status 1.
func IsWrongPassword(result *models.CommandResult) bool {
	if result == nil {
		return false
	}
	if result.ExitCode == ExitWrongPassword {
		return true
	}
	return strings.Contains(result.Stderr, wrongPasswordText)
}

// CheckInstalled verifies binary is available in PATH.
func CheckInstalled(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", binary, err)
	}
	return nil
}
