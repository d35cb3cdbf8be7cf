package main

import (
	"errors"
	"os"

	"localkeep/internal/errs"
	"localkeep/internal/license"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	switch errs.KindOf(err) {
	case errs.KindInvalidKey:
		lines = append(lines, "hint: license keys look like "+license.KeyFormat+" (letters and digits only).")
	case errs.KindNotFound:
		lines = append(lines,
			"hint: use the 64-character hash printed by upload.",
			"hint: images and sounds are stored separately; check you asked the right category.",
		)
	case errs.KindIOFailure:
		lines = append(lines, "hint: check permissions on the data directory (--data-dir or LOCALKEEP_DATA_DIR).")
	}

	if errors.Is(err, os.ErrPermission) {
		lines = append(lines, "hint: check permissions on the data directory (--data-dir or LOCALKEEP_DATA_DIR).")
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
