package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"localkeep/internal/config"
	"localkeep/internal/media"
)

type rootOptions struct {
	dataDir  string
	logLevel string
	format   string
}

// newRootCmd builds the command tree for one invocation. Flags resolve into a
// copy of base, so repeated runs against the same loaded config start clean.
func newRootCmd(base *config.Config) *cobra.Command {
	opts := &rootOptions{}
	cfg := &config.Config{}
	if base != nil {
		*cfg = *base
	}

	cmd := &cobra.Command{
		Use:           "localkeep",
		Short:         "Localkeep manages the offline license and media store of a desktop app",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := setupLogging(cmd.ErrOrStderr(), opts.logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
			if strings.TrimSpace(opts.dataDir) != "" {
				cfg.SetDataDir(opts.dataDir)
			}
			if raw := strings.TrimSpace(opts.format); raw != "" {
				raw = strings.ToLower(raw)
				if !config.IsFormat(raw) {
					return fmt.Errorf("invalid --format %q (allowed: text, json, yaml)", opts.format)
				}
				cfg.Format = raw
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "storage root (default: $XDG_DATA_HOME/localkeep)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "output format (text, json, yaml)")

	cmd.AddCommand(
		newLicenseCmd(cfg),
		newMediaCmd(cfg),
		newJournalCmd(cfg),
		newConfigCmd(cfg),
	)

	for _, cat := range media.Categories() {
		cmd.AddCommand(newCategoryCmd(cfg, cat))
	}

	return cmd
}
