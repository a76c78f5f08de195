// Package runner drives the interactive backup workflow, one location at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fgeck/frogbackup/internal/locale"
	"github.com/fgeck/frogbackup/internal/models"
	"github.com/fgeck/frogbackup/internal/services/console"
	"github.com/fgeck/frogbackup/internal/services/restic"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog"
)

const (
	banner  = "=================================================="
	divider = "--------------------------------------------------"
)

// Service defines the interface for the backup runner.
type Service interface {
	Run(ctx context.Context, cfg models.Config) error
}

// Impl implements the runner Service interface.
type Impl struct {
	resticSvc restic.Service
	console   console.Console
	tr        *locale.Translator
	answers   locale.Answers
	name      string
	version   string
	logger    zerolog.Logger
}

// New creates a new runner. name and version are shown in the window title
// and banners.
func New(
	logger zerolog.Logger,
	resticSvc restic.Service,
	con console.Console,
	tr *locale.Translator,
	name string,
	version string,
) *Impl {
	return &Impl{
		resticSvc: resticSvc,
		console:   con,
		tr:        tr,
		answers:   tr.Answers(),
		name:      name,
		version:   version,
		logger:    logger,
	}
}

// title is the window title, e.g. "FrogBackup v2.0.0".
func (s *Impl) title() string {
	return s.name + " v" + s.version
}

// bannerTitle upper-cases the program name only, e.g. "FROGBACKUP v2.0.0".
func (s *Impl) bannerTitle() string {
	return strings.ToUpper(s.name) + " v" + s.version
}

func (s *Impl) t(msg *i18n.Message) string {
	return s.tr.T(msg, nil)
}

func (s *Impl) tf(msg *i18n.Message, data map[string]any) string {
	return s.tr.T(msg, data)
}

// Run shows the welcome screen, processes every location in order and shows
// the closing screen.
func (s *Impl) Run(ctx context.Context, cfg models.Config) error {
	s.console.SetTitle(s.title())

	s.console.Println(banner + "\n")
	s.console.Heading(s.bannerTitle())
	s.console.Println("\n" + s.t(locale.MsgWelcome) + "\n")
	s.console.Println(banner + "\n")
	if err := s.pause(locale.MsgPressEnterContinue); err != nil {
		return err
	}

	total := len(cfg.Locations)
	for i, loc := range cfg.Locations {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Info().
			Str("name", loc.Name).
			Int("stage", i+1).
			Int("total", total).
			Msg("starting backup stage")

		st := &stage{loc: loc, index: i + 1, total: total}
		if err := s.runStage(ctx, st); err != nil {
			return fmt.Errorf("backup stage %q: %w", loc.Name, err)
		}

		s.logger.Info().Str("name", loc.Name).Int("attempts", st.attempts).Msg("backup stage confirmed")
	}

	s.console.Clear()
	s.console.Println(banner + "\n")
	s.console.Heading(s.bannerTitle())
	s.console.Println("\n" + s.t(locale.MsgGoodbye) + "\n")
	s.console.Println(banner + "\n")

	// All locations are confirmed; EOF on the exit pause is not a failure.
	if err := s.pause(locale.MsgPressEnterExit); err != nil && !errors.Is(err, console.ErrInputClosed) {
		return err
	}
	return nil
}

func (s *Impl) pause(msg *i18n.Message) error {
	_, err := s.console.ReadLine(s.t(msg))
	return err
}

// askYesNo repeats the question until the answer is an accepted token.
func (s *Impl) askYesNo(prompt string) (bool, error) {
	for {
		answer, err := s.console.ReadLine(prompt)
		if err != nil {
			return false, err
		}
		if yes, ok := s.answers.Match(answer); ok {
			return yes, nil
		}
		s.console.Println("\n" + s.t(locale.MsgInvalidAnswer))
	}
}

// printStderr shows the captured stderr verbatim, or a blank line when there
// was none so spacing stays the same.
func (s *Impl) printStderr(result *models.CommandResult) {
	if result.Stderr != "" {
		s.console.Println(result.Stderr)
		return
	}
	s.console.Println()
}

func (s *Impl) stepHeader(title string) {
	s.console.Heading(title)
	s.console.Println(divider + "\n")
}
