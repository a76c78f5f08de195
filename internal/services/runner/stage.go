package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/fgeck/frogbackup/internal/locale"
	"github.com/fgeck/frogbackup/internal/models"
	"github.com/fgeck/frogbackup/internal/services/restic"
)

// State is a step of the per-location workflow.
type State int

// Workflow states.
const (
	StateCollectCredentials State = iota
	StatePrune
	StateBackup
	StateDiff
	StateConfirm
	StateDeleteLatest
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCollectCredentials:
		return "collect_credentials"
	case StatePrune:
		return "prune"
	case StateBackup:
		return "backup"
	case StateDiff:
		return "diff"
	case StateConfirm:
		return "confirm"
	case StateDeleteLatest:
		return "delete_latest"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// stage carries one location through the state machine.
type stage struct {
	loc      models.BackupLocation
	index    int
	total    int
	repo     restic.Repository
	attempts int
}

func (s *Impl) runStage(ctx context.Context, st *stage) error {
	st.repo = restic.Repository{Path: st.loc.RemotePath}

	state := StateCollectCredentials
	for state != StateDone {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := s.step(ctx, st, state)
		if err != nil {
			return fmt.Errorf("%s: %w", state, err)
		}

		s.logger.Debug().Str("from", state.String()).Str("to", next.String()).Msg("state transition")
		state = next
	}
	return nil
}

func (s *Impl) step(ctx context.Context, st *stage, state State) (State, error) {
	switch state {
	case StateCollectCredentials:
		return s.collectCredentials(st)
	case StatePrune:
		return s.prune(ctx, st)
	case StateBackup:
		return s.backup(ctx, st)
	case StateDiff:
		return s.diff(ctx, st)
	case StateConfirm:
		return s.confirm(st)
	case StateDeleteLatest:
		return s.deleteLatest(ctx, st)
	default:
		return StateDone, fmt.Errorf("unknown state %d", state)
	}
}

func (s *Impl) collectCredentials(st *stage) (State, error) {
	st.attempts++
	loc := st.loc

	s.console.Clear()
	s.console.Println(banner + "\n")
	s.console.Heading(s.bannerTitle() + " - " +
		s.tf(locale.MsgStage, map[string]any{"Current": st.index, "Total": st.total}))
	s.console.Println()
	s.console.Println(s.tf(locale.MsgWillBackup, map[string]any{"Name": loc.Name}))
	s.console.Println(s.t(locale.MsgProceedIfCorrect) + "\n")
	s.console.Println(fmt.Sprintf("%s '%s'", s.t(locale.MsgLocalPath), loc.LocalPath))
	s.console.Println(fmt.Sprintf("%s '%s'", s.t(locale.MsgRemotePath), loc.RemotePath))
	s.console.Println(fmt.Sprintf("%s %d", s.t(locale.MsgMaxSnapshots), loc.KeepLast()))
	if len(loc.Exclude) > 0 {
		s.console.Println(s.t(locale.MsgExclude) + " " + strings.Join(loc.Exclude, ", "))
	}
	if len(loc.Tags) > 0 {
		s.console.Println(s.t(locale.MsgTags) + " " + strings.Join(loc.Tags, ", "))
	}
	s.console.Println("\n" + banner + "\n")

	for {
		password, err := s.console.ReadPassword(s.t(locale.MsgPasswordPrompt))
		if err != nil {
			return StateDone, err
		}
		if password != "" {
			st.repo.Password = password
			break
		}
		s.console.Println("\n" + s.t(locale.MsgBlankPassword))
	}

	return StatePrune, nil
}

func (s *Impl) prune(ctx context.Context, st *stage) (State, error) {
	keep := st.loc.KeepLast()

	s.console.Clear()
	s.stepHeader(s.tf(locale.MsgStepPrune, map[string]any{"Count": keep}))

	if keep <= 0 {
		s.console.Info(s.t(locale.MsgPruneSkipped) + "\n")
		return StateBackup, nil
	}

	result, err := s.resticSvc.Forget(ctx, st.repo, keep, s.console.Out())
	if err != nil {
		return StateDone, err
	}
	s.printStderr(result)

	return StateBackup, nil
}

func (s *Impl) backup(ctx context.Context, st *stage) (State, error) {
	s.stepHeader(s.t(locale.MsgStepBackup))

	result, err := s.resticSvc.Backup(ctx, st.repo, st.loc, s.console.Out())
	if err != nil {
		return StateDone, err
	}
	s.printStderr(result)

	if restic.IsWrongPassword(result) {
		s.logger.Warn().Str("name", st.loc.Name).Msg("repository rejected the password")
		s.console.Error(s.t(locale.MsgWrongPassword) + "\n")
		if err := s.pause(locale.MsgPressEnterRestart); err != nil {
			return StateDone, err
		}
		return StateCollectCredentials, nil
	}

	return StateDiff, nil
}

func (s *Impl) diff(ctx context.Context, st *stage) (State, error) {
	s.stepHeader(s.t(locale.MsgStepDiff))

	listing, err := s.resticSvc.Snapshots(ctx, st.repo)
	if err != nil {
		return StateDone, err
	}

	pair, ok := restic.ParseSnapshotListing(listing)
	if !ok {
		s.console.Info(s.t(locale.MsgSingleSnapshot) + "\n")
		return StateConfirm, nil
	}

	result, err := s.resticSvc.Diff(ctx, st.repo, pair, s.console.Out())
	if err != nil {
		return StateDone, err
	}
	s.printStderr(result)

	return StateConfirm, nil
}

func (s *Impl) confirm(st *stage) (State, error) {
	s.stepHeader(s.t(locale.MsgFinished))
	s.console.Println(s.t(locale.MsgConfirmOutput))

	ok, err := s.askYesNo(s.t(locale.MsgAskSuccess))
	if err != nil {
		return StateDone, err
	}
	if ok {
		return StateDone, nil
	}

	s.console.Println("\n" + s.t(locale.MsgTakeYourTime))
	s.console.Println(s.t(locale.MsgContinueBelow) + "\n")

	remove, err := s.askYesNo(s.t(locale.MsgAskDelete) + "\n" + s.t(locale.MsgAskDeleteHint))
	if err != nil {
		return StateDone, err
	}
	if remove {
		return StateDeleteLatest, nil
	}

	s.logger.Info().Str("name", st.loc.Name).Msg("backup not confirmed, restarting stage")
	return StateCollectCredentials, nil
}

func (s *Impl) deleteLatest(ctx context.Context, st *stage) (State, error) {
	s.console.Println()
	s.stepHeader(s.t(locale.MsgStepDelete))

	result, err := s.resticSvc.ForgetLatest(ctx, st.repo, s.console.Out())
	if err != nil {
		return StateDone, err
	}
	s.printStderr(result)

	s.logger.Info().Str("name", st.loc.Name).Msg("latest snapshot deleted")

	s.stepHeader(s.t(locale.MsgDeleted))
	s.console.Println(s.t(locale.MsgReadDeleteOutput) + "\n")
	if err := s.pause(locale.MsgPressEnterRestart); err != nil {
		return StateDone, err
	}

	return StateCollectCredentials, nil
}
