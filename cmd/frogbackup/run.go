package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/frogbackup/internal/locale"
	"github.com/fgeck/frogbackup/internal/services/console"
	"github.com/fgeck/frogbackup/internal/services/restic"
	"github.com/fgeck/frogbackup/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive backup session",
	Long: `Start the interactive backup session. For every configured location:
1. Ask for the repository password
2. Forget and prune snapshots beyond maxSnapshots (skipped when 0)
3. Back up the local path
4. Show the diff between the two latest snapshots
5. Confirm the result, optionally deleting the latest snapshot`,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	con := console.New()

	cfg, tr, err := loadConfig(con, true)
	if err != nil {
		return err
	}

	binary := cfg.Program.ResticBinary
	if err := restic.CheckInstalled(binary); err != nil {
		log.Error().Err(err).Msg("restic is not available")
		con.Error(tr.T(locale.MsgResticMissing, map[string]any{"Binary": binary}) + "\n")
		waitForExit(con, tr, true)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hidden password input turns echo off; put the terminal back before
	// exiting on an interrupt.
	stdin := int(os.Stdin.Fd())
	var saved *term.State
	if term.IsTerminal(stdin) {
		saved, _ = term.GetState(stdin)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
		if saved != nil {
			_ = term.Restore(stdin, saved)
		}
		os.Exit(130)
	}()

	runnerSvc := runner.New(log.Logger, restic.New(log.Logger, binary), con, tr, "FrogBackup", Version)
	if err := runnerSvc.Run(ctx, *cfg); err != nil {
		log.Error().Err(err).Msg("backup session aborted")
		return err
	}

	log.Info().Int("locations", len(cfg.Locations)).Msg("backup session completed")
	return nil
}
