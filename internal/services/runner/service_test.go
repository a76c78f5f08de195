package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fgeck/frogbackup/internal/locale"
	"github.com/fgeck/frogbackup/internal/models"
	"github.com/fgeck/frogbackup/internal/services/console"
	"github.com/fgeck/frogbackup/internal/services/restic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations.
type mockResticService struct {
	forgetFunc       func(ctx context.Context, repo restic.Repository, keepLast int, out io.Writer) (*models.CommandResult, error)
	backupFunc       func(ctx context.Context, repo restic.Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error)
	snapshotsFunc    func(ctx context.Context, repo restic.Repository) (string, error)
	diffFunc         func(ctx context.Context, repo restic.Repository, pair models.SnapshotPair, out io.Writer) (*models.CommandResult, error)
	forgetLatestFunc func(ctx context.Context, repo restic.Repository, out io.Writer) (*models.CommandResult, error)

	calls       []string
	keepLasts   []int
	backups     []models.BackupLocation
	passwords   []string
	diffedPairs []models.SnapshotPair
}

func (m *mockResticService) Forget(ctx context.Context, repo restic.Repository, keepLast int, out io.Writer) (*models.CommandResult, error) {
	m.calls = append(m.calls, "forget")
	m.keepLasts = append(m.keepLasts, keepLast)
	if m.forgetFunc != nil {
		return m.forgetFunc(ctx, repo, keepLast, out)
	}
	return &models.CommandResult{}, nil
}

func (m *mockResticService) Backup(ctx context.Context, repo restic.Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error) {
	m.calls = append(m.calls, "backup")
	m.backups = append(m.backups, loc)
	m.passwords = append(m.passwords, repo.Password)
	if m.backupFunc != nil {
		return m.backupFunc(ctx, repo, loc, out)
	}
	return &models.CommandResult{}, nil
}

func (m *mockResticService) Snapshots(ctx context.Context, repo restic.Repository) (string, error) {
	m.calls = append(m.calls, "snapshots")
	if m.snapshotsFunc != nil {
		return m.snapshotsFunc(ctx, repo)
	}
	return listing(1), nil
}

func (m *mockResticService) Diff(ctx context.Context, repo restic.Repository, pair models.SnapshotPair, out io.Writer) (*models.CommandResult, error) {
	m.calls = append(m.calls, "diff")
	m.diffedPairs = append(m.diffedPairs, pair)
	if m.diffFunc != nil {
		return m.diffFunc(ctx, repo, pair, out)
	}
	return &models.CommandResult{}, nil
}

func (m *mockResticService) ForgetLatest(ctx context.Context, repo restic.Repository, out io.Writer) (*models.CommandResult, error) {
	m.calls = append(m.calls, "forget_latest")
	if m.forgetLatestFunc != nil {
		return m.forgetLatestFunc(ctx, repo, out)
	}
	return &models.CommandResult{}, nil
}

func (m *mockResticService) count(call string) int {
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

// fakeConsole replays scripted input and records everything written.
type fakeConsole struct {
	lines           []string
	passwords       []string
	out             bytes.Buffer
	prompts         []string
	passwordPrompts int
}

func (f *fakeConsole) Out() io.Writer        { return &f.out }
func (f *fakeConsole) Println(a ...any)      { fmt.Fprintln(&f.out, a...) }
func (f *fakeConsole) Error(msg string)      { fmt.Fprintln(&f.out, msg) }
func (f *fakeConsole) Warn(msg string)       { fmt.Fprintln(&f.out, msg) }
func (f *fakeConsole) Info(msg string)       { fmt.Fprintln(&f.out, msg) }
func (f *fakeConsole) Heading(msg string)    { fmt.Fprintln(&f.out, msg) }
func (f *fakeConsole) Clear()                {}
func (f *fakeConsole) SetTitle(title string) {}

func (f *fakeConsole) ReadLine(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.lines) == 0 {
		return "", console.ErrInputClosed
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeConsole) ReadPassword(prompt string) (string, error) {
	f.passwordPrompts++
	if len(f.passwords) == 0 {
		return "", console.ErrInputClosed
	}
	pw := f.passwords[0]
	f.passwords = f.passwords[1:]
	return pw, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func intPtr(i int) *int {
	return &i
}

// listing renders a `restic snapshots` table with n snapshots whose IDs are
// eight copies of the digit-free letters a, b, c, ... in age order.
func listing(n int) string {
	var b strings.Builder
	b.WriteString("ID        Time                 Host        Tags        Paths\n")
	b.WriteString("----------------------------------------------------------------\n")
	for i := 0; i < n; i++ {
		id := strings.Repeat(string(rune('a'+i)), 8)
		fmt.Fprintf(&b, "%s  2024-05-0%d 10:00:00  nas                     /data\n", id, i+1)
	}
	b.WriteString("----------------------------------------------------------------\n")
	fmt.Fprintf(&b, "%d snapshots\n", n)
	return b.String()
}

func newRunner(svc restic.Service, con console.Console) *Impl {
	return New(testLogger(), svc, con, locale.Identity(), "FrogBackup", "2.0")
}

func singleLocation(maxSnapshots int) models.Config {
	return models.Config{
		Locations: []models.BackupLocation{
			{
				Name:         "Documents",
				LocalPath:    "/home/user/Documents",
				RemotePath:   "/mnt/backup/documents",
				MaxSnapshots: intPtr(maxSnapshots),
			},
		},
	}
}

func TestRun_SuccessfulBackupWithDiff(t *testing.T) {
	resticSvc := &mockResticService{
		snapshotsFunc: func(ctx context.Context, repo restic.Repository) (string, error) {
			return listing(4), nil
		},
	}
	con := &fakeConsole{
		lines:     []string{"", "Y", ""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(5))

	require.NoError(t, err)
	assert.Equal(t, []string{"forget", "backup", "snapshots", "diff"}, resticSvc.calls)
	assert.Equal(t, []int{5}, resticSvc.keepLasts)
	require.Len(t, resticSvc.backups, 1)
	assert.Empty(t, resticSvc.backups[0].Tags)
	assert.Empty(t, resticSvc.backups[0].Exclude)
	assert.Equal(t, []string{"secret"}, resticSvc.passwords)
	require.Len(t, resticSvc.diffedPairs, 1)
	assert.Equal(t, models.SnapshotPair{Previous: "cccccccc", Latest: "dddddddd"}, resticSvc.diffedPairs[0])
	assert.Equal(t, 1, con.passwordPrompts)
	assert.Empty(t, con.lines)
}

func TestRun_ZeroRetentionDeclinedDeletionRestarts(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		// welcome, not successful, do not delete, then successful, exit
		lines:     []string{"", "N", "n", "y", ""},
		passwords: []string{"first", "second"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(0))

	require.NoError(t, err)
	assert.Equal(t, 0, resticSvc.count("forget"))
	assert.Equal(t, 0, resticSvc.count("forget_latest"))
	assert.Equal(t, 2, resticSvc.count("backup"))
	assert.Equal(t, 2, con.passwordPrompts)
	assert.Equal(t, []string{"first", "second"}, resticSvc.passwords)
	assert.Contains(t, con.out.String(), locale.MsgPruneSkipped.Other)
}

func TestRun_SingleSnapshotSkipsDiff(t *testing.T) {
	resticSvc := &mockResticService{
		snapshotsFunc: func(ctx context.Context, repo restic.Repository) (string, error) {
			return listing(1), nil
		},
	}
	con := &fakeConsole{
		lines:     []string{"", "y", ""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(3))

	require.NoError(t, err)
	assert.Equal(t, 0, resticSvc.count("diff"))
	assert.Contains(t, con.out.String(), locale.MsgSingleSnapshot.Other)
}

func TestRun_EmptyRepositoryListingSkipsDiff(t *testing.T) {
	resticSvc := &mockResticService{
		snapshotsFunc: func(ctx context.Context, repo restic.Repository) (string, error) {
			return "", nil
		},
	}
	con := &fakeConsole{
		lines:     []string{"", "y", ""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(3))

	require.NoError(t, err)
	assert.Equal(t, 0, resticSvc.count("diff"))
}

func TestRun_WrongPasswordRestartsAtCredentials(t *testing.T) {
	attempt := 0
	resticSvc := &mockResticService{
		backupFunc: func(ctx context.Context, repo restic.Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error) {
			attempt++
			if attempt == 1 {
				return &models.CommandResult{Stderr: "Fatal: wrong password or no key found", ExitCode: 1}, nil
			}
			return &models.CommandResult{}, nil
		},
	}
	con := &fakeConsole{
		// welcome, restart pause, successful, exit
		lines:     []string{"", "", "y", ""},
		passwords: []string{"wrong", "right"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(2))

	require.NoError(t, err)
	assert.Equal(t, []string{"forget", "backup", "forget", "backup", "snapshots"}, resticSvc.calls)
	assert.Equal(t, []string{"wrong", "right"}, resticSvc.passwords)
	assert.Equal(t, 2, con.passwordPrompts)
	assert.Contains(t, con.out.String(), locale.MsgWrongPassword.Other)
	assert.Contains(t, con.out.String(), "Fatal: wrong password or no key found\n")
}

func TestRun_WrongPasswordExitCodeRestarts(t *testing.T) {
	attempt := 0
	resticSvc := &mockResticService{
		backupFunc: func(ctx context.Context, repo restic.Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error) {
			attempt++
			if attempt == 1 {
				return &models.CommandResult{ExitCode: restic.ExitWrongPassword}, nil
			}
			return &models.CommandResult{}, nil
		},
	}
	con := &fakeConsole{
		lines:     []string{"", "", "y", ""},
		passwords: []string{"wrong", "right"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(0))

	require.NoError(t, err)
	assert.Equal(t, 2, resticSvc.count("backup"))
	assert.Equal(t, 1, resticSvc.count("snapshots"))
}

func TestRun_InvalidAnswerRepromptsWithoutSideEffects(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{"", "maybe", "", "yess", "y", ""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(1))

	require.NoError(t, err)
	assert.Equal(t, []string{"forget", "backup", "snapshots"}, resticSvc.calls)
	assert.Equal(t, 3, strings.Count(con.out.String(), locale.MsgInvalidAnswer.Other))
	assert.Equal(t, 1, con.passwordPrompts)
}

func TestRun_BlankPasswordReprompts(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{"", "y", ""},
		passwords: []string{"", "", "secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(1))

	require.NoError(t, err)
	assert.Equal(t, 3, con.passwordPrompts)
	assert.Equal(t, 2, strings.Count(con.out.String(), locale.MsgBlankPassword.Other))
	assert.Equal(t, []string{"secret"}, resticSvc.passwords)
}

func TestRun_DeleteLatestThenRestart(t *testing.T) {
	resticSvc := &mockResticService{
		forgetLatestFunc: func(ctx context.Context, repo restic.Repository, out io.Writer) (*models.CommandResult, error) {
			_, _ = io.WriteString(out, "removed snapshot dddddddd\n")
			return &models.CommandResult{}, nil
		},
	}
	con := &fakeConsole{
		// welcome, not successful, delete, restart pause, successful, exit
		lines:     []string{"", "n", "s", "", "y", ""},
		passwords: []string{"secret", "secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(0))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"backup", "snapshots", "forget_latest",
		"backup", "snapshots",
	}, resticSvc.calls)
	assert.Contains(t, con.out.String(), "removed snapshot dddddddd\n")
	assert.Contains(t, con.out.String(), locale.MsgDeleted.Other)
}

func TestRun_MultipleLocationsInOrder(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{"", "y", "y", ""},
		passwords: []string{"one", "two"},
	}
	cfg := models.Config{
		Locations: []models.BackupLocation{
			{Name: "First", LocalPath: "/a", RemotePath: "/ra", MaxSnapshots: intPtr(0), Tags: []string{"t1"}},
			{Name: "Second", LocalPath: "/b", RemotePath: "/rb", MaxSnapshots: intPtr(4), Exclude: []string{"*.iso"}},
		},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), cfg)

	require.NoError(t, err)
	require.Len(t, resticSvc.backups, 2)
	assert.Equal(t, "First", resticSvc.backups[0].Name)
	assert.Equal(t, "Second", resticSvc.backups[1].Name)
	assert.Equal(t, []int{4}, resticSvc.keepLasts)
	assert.Equal(t, []string{"one", "two"}, resticSvc.passwords)

	out := con.out.String()
	assert.Contains(t, out, "Stage 1 of 2")
	assert.Contains(t, out, "Stage 2 of 2")
	assert.Contains(t, out, "TAGS: t1")
	assert.Contains(t, out, "EXCLUDE: *.iso")
}

func TestRun_StderrPrintedVerbatimOrBlankLine(t *testing.T) {
	resticSvc := &mockResticService{
		forgetFunc: func(ctx context.Context, repo restic.Repository, keepLast int, out io.Writer) (*models.CommandResult, error) {
			return &models.CommandResult{Stderr: "unable to lock repository"}, nil
		},
		backupFunc: func(ctx context.Context, repo restic.Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error) {
			_, _ = io.WriteString(out, "snapshot 12345678 saved\n")
			return &models.CommandResult{}, nil
		},
	}
	con := &fakeConsole{
		lines:     []string{"", "y", ""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(1))

	require.NoError(t, err)
	out := con.out.String()
	assert.Contains(t, out, "unable to lock repository\n")
	assert.Contains(t, out, "snapshot 12345678 saved\n\n")
}

func TestRun_InputClosedAborts(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, console.ErrInputClosed))
}

func TestRun_InputClosedAtFinalPauseSucceeds(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{"", "y"},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(1))

	require.NoError(t, err)
	assert.Equal(t, 1, resticSvc.count("forget"))
	assert.Equal(t, 1, resticSvc.count("backup"))
	assert.Equal(t, 1, resticSvc.count("snapshots"))
	assert.Equal(t, 0, resticSvc.count("forget_latest"))
}

func TestRun_BannerUppercasesProgramNameOnly(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{"", "y", ""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(1))

	require.NoError(t, err)
	out := con.out.String()
	assert.Contains(t, out, "FROGBACKUP v2.0")
	assert.NotContains(t, out, "FROGBACKUP V")
}

func TestRun_ServiceErrorAborts(t *testing.T) {
	resticSvc := &mockResticService{
		backupFunc: func(ctx context.Context, repo restic.Repository, loc models.BackupLocation, out io.Writer) (*models.CommandResult, error) {
			return nil, errors.New("starting restic: executable file not found")
		},
	}
	con := &fakeConsole{
		lines:     []string{""},
		passwords: []string{"secret"},
	}

	err := newRunner(resticSvc, con).Run(context.Background(), singleLocation(0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Documents")
	assert.Contains(t, err.Error(), "backup")
	assert.Equal(t, 0, resticSvc.count("snapshots"))
}

func TestRun_CancelledContext(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{
		lines:     []string{""},
		passwords: []string{"secret"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newRunner(resticSvc, con).Run(ctx, singleLocation(1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, resticSvc.calls)
}

func TestRun_NoLocations(t *testing.T) {
	resticSvc := &mockResticService{}
	con := &fakeConsole{lines: []string{"", ""}}

	err := newRunner(resticSvc, con).Run(context.Background(), models.Config{})

	require.NoError(t, err)
	assert.Empty(t, resticSvc.calls)
	assert.Contains(t, con.out.String(), locale.MsgGoodbye.Other)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "collect_credentials", StateCollectCredentials.String())
	assert.Equal(t, "delete_latest", StateDeleteLatest.String())
	assert.Equal(t, "unknown", State(42).String())
}
