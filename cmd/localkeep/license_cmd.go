package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"localkeep/internal/config"
	"localkeep/internal/license"
)

type licenseStatus struct {
	Licensed bool `json:"licensed" yaml:"licensed"`
}

type licenseResult struct {
	Activated bool `json:"activated,omitempty" yaml:"activated,omitempty"`
	Removed   bool `json:"removed,omitempty" yaml:"removed,omitempty"`
}

type licenseDetail struct {
	Key         string    `json:"key" yaml:"key"`
	ActivatedAt uint64    `json:"activated_at" yaml:"activated_at"`
	Activated   time.Time `json:"activated" yaml:"activated"`
	Path        string    `json:"path" yaml:"path"`
}

func newLicenseCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{Use: "license", Short: "Manage license activation"}
	cmd.AddCommand(
		newLicenseCheckCmd(cfg),
		newLicenseActivateCmd(cfg),
		newLicenseRemoveCmd(cfg),
		newLicenseShowCmd(cfg),
	)
	return cmd
}

func newLicenseCheckCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether a valid license is activated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				ok := a.licenses.Check(cmd.Context())
				return writeResult(cmd.OutOrStdout(), cfg.Format, licenseStatus{Licensed: ok}, func(w io.Writer) error {
					if ok {
						return writePlain(w, "licensed\n")
					}
					return writePlain(w, "not licensed\n")
				})
			})
		},
	}
}

func newLicenseActivateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <key>",
		Short: "Activate a license key (" + license.KeyFormat + ")",
		Args:  requireExactlyArgs(1, "license key is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				ok, err := a.licenses.Activate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), cfg.Format, licenseResult{Activated: ok}, func(w io.Writer) error {
					return writePlain(w, "license activated\n")
				})
			})
		},
	}
}

func newLicenseRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				ok, err := a.licenses.Remove(cmd.Context())
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), cfg.Format, licenseResult{Removed: ok}, func(w io.Writer) error {
					return writePlain(w, "license removed\n")
				})
			})
		},
	}
}

func newLicenseShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored license record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				rec, ok := a.licenses.Load(cmd.Context())
				if !ok {
					return fmt.Errorf("no license is activated")
				}
				path, err := a.paths.LicensePath()
				if err != nil {
					return err
				}
				detail := licenseDetail{
					Key:         rec.Key,
					ActivatedAt: rec.ActivatedAt,
					Activated:   time.Unix(int64(rec.ActivatedAt), 0).UTC(),
					Path:        path,
				}
				return writeResult(cmd.OutOrStdout(), cfg.Format, detail, func(w io.Writer) error {
					return writePlain(w, "key: %s\nactivated_at: %s\npath: %s\n", detail.Key, formatTime(detail.Activated), detail.Path)
				})
			})
		},
	}
}
