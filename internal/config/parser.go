// Package config provides configuration file discovery, parsing and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/fgeck/frogbackup/internal/models"
	"github.com/spf13/viper"
)

const (
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "config.yaml"

	// DefaultResticBinary is the backup program invoked when none is configured.
	DefaultResticBinary = "restic"

	// DefaultLocaleDir holds the translation catalogs.
	DefaultLocaleDir = "locale"

	xdgConfigFile = "frogbackup/config.yaml"
)

// ErrConfigNotFound is returned when no configuration file could be located.
var ErrConfigNotFound = errors.New("config file not found")

// Locate resolves the configuration file to load. An explicit path is used
// as-is; otherwise the working directory is tried before the XDG config home.
func Locate(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return path, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return path, nil
	}

	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	}

	found, err := xdg.SearchConfigFile(xdgConfigFile)
	if err != nil {
		return DefaultFile, fmt.Errorf("%w: %s", ErrConfigNotFound, DefaultFile)
	}
	return found, nil
}

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{
		Program: models.ProgramSettings{
			Language:     p.v.GetString("programSettings.language"),
			ResticBinary: p.v.GetString("programSettings.resticBinary"),
			LocaleDir:    os.ExpandEnv(p.v.GetString("programSettings.localeDir")),
		},
	}

	if cfg.Program.ResticBinary == "" {
		cfg.Program.ResticBinary = DefaultResticBinary
	}
	if cfg.Program.LocaleDir == "" {
		cfg.Program.LocaleDir = DefaultLocaleDir
	}

	if err := p.v.UnmarshalKey("backupLocations", &cfg.Locations); err != nil {
		return nil, fmt.Errorf("parsing backupLocations: %w", err)
	}

	for i := range cfg.Locations {
		cfg.Locations[i].LocalPath = os.ExpandEnv(cfg.Locations[i].LocalPath)
		cfg.Locations[i].RemotePath = os.ExpandEnv(cfg.Locations[i].RemotePath)
	}

	return cfg, nil
}
