package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"localkeep/internal/config"
	"localkeep/internal/media"
)

type uploadResult struct {
	Hash     string `json:"hash" yaml:"hash"`
	Category string `json:"category" yaml:"category"`
	Size     int64  `json:"size" yaml:"size"`
}

// newCategoryCmd builds the image or sound command, bound to one category.
func newCategoryCmd(cfg *config.Config, cat media.Category) *cobra.Command {
	noun := strings.TrimSuffix(string(cat), "s")
	cmd := &cobra.Command{
		Use:     noun,
		Aliases: []string{string(cat)},
		Short:   fmt.Sprintf("Store and fetch %s by content hash", cat),
	}
	fixed := func() (media.Category, error) { return cat, nil }
	cmd.AddCommand(
		newMediaUploadCmd(cfg, fixed, noun),
		newMediaGetCmd(cfg, fixed, noun),
	)
	return cmd
}

// newMediaCmd builds the category-agnostic media command, for callers that
// carry the category as data.
func newMediaCmd(cfg *config.Config) *cobra.Command {
	var rawCategory string
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Store and fetch media of any category by content hash",
	}
	cmd.PersistentFlags().StringVarP(&rawCategory, "category", "c", "", fmt.Sprintf("media category (%s)", categoryNames()))
	parsed := func() (media.Category, error) { return media.ParseCategory(rawCategory) }
	cmd.AddCommand(
		newMediaUploadCmd(cfg, parsed, "media"),
		newMediaGetCmd(cfg, parsed, "media"),
	)
	return cmd
}

func categoryNames() string {
	names := make([]string, 0, len(media.Categories()))
	for _, cat := range media.Categories() {
		names = append(names, string(cat))
	}
	return strings.Join(names, ", ")
}

func newMediaUploadCmd(cfg *config.Config, category func() (media.Category, error), noun string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: fmt.Sprintf("Store a %s file and print its hash", noun),
		Args:  requireExactlyArgs(1, "path is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category()
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			return withApp(cfg, func(a *app) error {
				hash, size, err := a.media.UploadReader(cmd.Context(), file, cat)
				if err != nil {
					return err
				}
				result := uploadResult{Hash: hash, Category: string(cat), Size: size}
				return writeResult(cmd.OutOrStdout(), cfg.Format, result, func(w io.Writer) error {
					return writePlain(w, "%s\n", hash)
				})
			})
		},
	}
}

func newMediaGetCmd(cfg *config.Config, category func() (media.Category, error), noun string) *cobra.Command {
	var outPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "get <hash>",
		Short: fmt.Sprintf("Write a stored %s to stdout or a file", noun),
		Args:  requireExactlyArgs(1, "hash is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category()
			if err != nil {
				return err
			}
			return withApp(cfg, func(a *app) error {
				data, err := a.media.Get(cmd.Context(), strings.TrimSpace(args[0]), cat)
				if err != nil {
					return err
				}
				if outPath == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := writeOutputFile(outPath, data, force); err != nil {
					return err
				}
				return writePlain(cmd.ErrOrStderr(), "%s\n", outPath)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite output path if it exists")
	return cmd
}

func writeOutputFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("output path exists: %s (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
