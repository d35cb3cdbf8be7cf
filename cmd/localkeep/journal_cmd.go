package main

import (
	"io"

	"github.com/spf13/cobra"

	"localkeep/internal/config"
	"localkeep/internal/journal"
)

func newJournalCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{Use: "journal", Short: "Inspect the activity journal"}
	cmd.AddCommand(newJournalListCmd(cfg), newJournalStatusCmd(cfg))
	return cmd
}

func newJournalListCmd(cfg *config.Config) *cobra.Command {
	var filter journal.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cfg, func(j *journal.Journal) error {
				events, err := j.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), cfg.Format, events, func(w io.Writer) error {
					for _, ev := range events {
						line := formatTime(ev.CreatedAt) + "  " + ev.Kind + "  " + ev.Subject
						if ev.Detail != "" {
							line += "  (" + ev.Detail + ")"
						}
						if err := writePlain(w, "%s\n", line); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&filter.Kind, "kind", "", "only show events of this kind")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum number of events")
	return cmd
}

func newJournalStatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show journal schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cfg, func(j *journal.Journal) error {
				status, err := j.Status()
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), cfg.Format, status, func(w io.Writer) error {
					if err := writePlain(w, "Current version: %d\nAvailable version: %d\n", status.CurrentVersion, status.AvailableVersion); err != nil {
						return err
					}
					if len(status.Pending) == 0 {
						return writePlain(w, "No pending migrations.\n")
					}
					for _, m := range status.Pending {
						if err := writePlain(w, "  %d: %s\n", m.Version, m.Description); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
}
