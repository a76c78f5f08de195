// Package models contains the data structures used throughout frogbackup.
package models

// Config holds the complete configuration for an interactive backup session.
type Config struct {
	Program   ProgramSettings
	Locations []BackupLocation
}

// ProgramSettings holds program-wide settings.
type ProgramSettings struct {
	Language     string
	ResticBinary string // defaults to "restic"
	LocaleDir    string // defaults to "locale"
}

// BackupLocation is one configured source/repository pair.
//
// MaxSnapshots is a pointer so that an absent key can be told apart from 0,
// which disables pruning.
type BackupLocation struct {
	Name         string   `mapstructure:"name"`
	LocalPath    string   `mapstructure:"localPath"`
	RemotePath   string   `mapstructure:"remotePath"`
	MaxSnapshots *int     `mapstructure:"maxSnapshots"`
	Tags         []string `mapstructure:"tags"`
	Exclude      []string `mapstructure:"exclude"`
}

// KeepLast returns the retention count, or 0 if it is not set.
func (l BackupLocation) KeepLast() int {
	if l.MaxSnapshots == nil {
		return 0
	}
	return *l.MaxSnapshots
}
