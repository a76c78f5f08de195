package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fgeck/frogbackup/internal/models"
	"go.uber.org/multierr"
)

// FieldError describes one missing or invalid field of a backup location.
type FieldError struct {
	Block  int // 1-based position in backupLocations
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s (block %d)", e.Field, e.Block)
	}
	return fmt.Sprintf("%s (block %d): %s", e.Field, e.Block, e.Reason)
}

// ValidationError collects every FieldError found in a configuration.
type ValidationError struct {
	err error
}

// Fields returns the individual field errors in the order they were found.
func (e *ValidationError) Fields() []*FieldError {
	var fields []*FieldError
	for _, err := range multierr.Errors(e.err) {
		var fe *FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fe)
		}
	}
	return fields
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0)
	for _, fe := range e.Fields() {
		parts = append(parts, fe.Error())
	}
	return "blank or missing fields: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Validate checks every backup location and reports all problems at once.
// A valid configuration is returned unchanged.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var err error
	for i, loc := range cfg.Locations {
		block := i + 1
		if loc.Name == "" {
			err = multierr.Append(err, &FieldError{Block: block, Field: "name"})
		}
		if loc.LocalPath == "" {
			err = multierr.Append(err, &FieldError{Block: block, Field: "localPath"})
		}
		if loc.RemotePath == "" {
			err = multierr.Append(err, &FieldError{Block: block, Field: "remotePath"})
		}
		switch {
		case loc.MaxSnapshots == nil:
			err = multierr.Append(err, &FieldError{Block: block, Field: "maxSnapshots"})
		case *loc.MaxSnapshots < 0:
			err = multierr.Append(err, &FieldError{Block: block, Field: "maxSnapshots", Reason: "must not be negative"})
		}
	}

	if err != nil {
		return &ValidationError{err: err}
	}
	return nil
}
