package main

import (
	"fmt"
	"strings"

	"github.com/fgeck/frogbackup/internal/services/console"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without running restic.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, tr, err := loadConfig(console.New(), false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration is valid!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Program Settings:")
	fmt.Fprintf(out, "  Language: %s\n", tr.Language())
	fmt.Fprintf(out, "  Restic binary: %s\n", cfg.Program.ResticBinary)
	fmt.Fprintf(out, "  Locale dir: %s\n", cfg.Program.LocaleDir)

	for i, loc := range cfg.Locations {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Location %d: %s\n", i+1, loc.Name)
		fmt.Fprintf(out, "  Local path: %s\n", loc.LocalPath)
		fmt.Fprintf(out, "  Remote path: %s\n", loc.RemotePath)
		if loc.KeepLast() == 0 {
			fmt.Fprintln(out, "  Max snapshots: 0 (pruning disabled)")
		} else {
			fmt.Fprintf(out, "  Max snapshots: %d\n", loc.KeepLast())
		}
		if len(loc.Tags) > 0 {
			fmt.Fprintf(out, "  Tags: %s\n", strings.Join(loc.Tags, ", "))
		}
		if len(loc.Exclude) > 0 {
			fmt.Fprintf(out, "  Exclude: %s\n", strings.Join(loc.Exclude, ", "))
		}
	}

	return nil
}
