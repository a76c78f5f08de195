package main

import (
	"errors"
	"strings"

	"github.com/fgeck/frogbackup/internal/config"
	"github.com/fgeck/frogbackup/internal/locale"
	"github.com/fgeck/frogbackup/internal/models"
	"github.com/fgeck/frogbackup/internal/services/console"
	"github.com/rs/zerolog/log"
)

// loadConfig locates, parses and validates the configuration and resolves
// the translator. Every failure has already been shown to the operator when
// an error is returned; pause controls whether load failures wait for Enter.
func loadConfig(con console.Console, pause bool) (*models.Config, *locale.Translator, error) {
	tr := locale.Identity()

	path, err := config.Locate(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("config file not found")
		con.Error(tr.T(locale.MsgConfigNotFound, map[string]any{"File": path}) + "\n")
		waitForExit(con, tr, pause)
		return nil, nil, err
	}

	cfg, err := config.NewParser().LoadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to load config")
		con.Error(tr.T(locale.MsgConfigInvalid, map[string]any{"File": path, "Error": err.Error()}) + "\n")
		waitForExit(con, tr, pause)
		return nil, nil, err
	}

	dir := cfg.Program.LocaleDir
	if localeDir != "" {
		dir = localeDir
	}

	tr, err = locale.New(cfg.Program.Language, dir)
	switch {
	case errors.Is(err, locale.ErrNoLanguage):
		log.Debug().Str("file", path).Msg("no language configured, using built-in English text")
		con.Warn(tr.T(locale.MsgLanguageFallback, map[string]any{"File": path}) + "\n")
	case err != nil:
		log.Debug().Err(err).Str("language", cfg.Program.Language).Str("dir", dir).Msg("using built-in English text")
		con.Warn(tr.T(locale.MsgCatalogFallback, map[string]any{"Language": cfg.Program.Language}) + "\n")
	}

	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")

		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fields := make([]string, 0, len(verr.Fields()))
			for _, fe := range verr.Fields() {
				fields = append(fields, fe.Error())
			}
			con.Error(tr.T(locale.MsgMissingFields, map[string]any{"File": path}) + " " +
				strings.Join(fields, ", ") + ".\n" + tr.T(locale.MsgCheckAndRetry, nil))
		} else {
			con.Error(err.Error())
		}
		return nil, nil, err
	}

	log.Debug().
		Str("config", path).
		Str("language", tr.Language()).
		Int("locations", len(cfg.Locations)).
		Msg("configuration loaded")

	return cfg, tr, nil
}

func waitForExit(con console.Console, tr *locale.Translator, pause bool) {
	if !pause {
		return
	}
	_, _ = con.ReadLine(tr.T(locale.MsgPressEnterExit, nil))
}
