package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"localkeep/internal/errs"
)

const (
	LicenseFileName = "license.json"
	MediaDirName    = "media"
	ImagesDirName   = "images"
	SoundsDirName   = "sounds"

	dirPerm = 0o755
)

// Resolver supplies the storage root shared by the license and media stores.
type Resolver struct {
	root string
}

// New creates a resolver rooted at root and creates the full directory tree.
// An error here means no store operation can succeed.
func New(root string) (*Resolver, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	r := &Resolver{root: abs}
	if _, err := r.MediaDir(); err != nil {
		return nil, err
	}
	return r, nil
}

// Root returns the root path without touching the filesystem.
func (r *Resolver) Root() string {
	return r.root
}

// RootDir returns the root directory, creating it if absent.
func (r *Resolver) RootDir() (string, error) {
	if err := ensureDir(r.root); err != nil {
		return "", err
	}
	return r.root, nil
}

// MediaDir returns <root>/media after ensuring both category directories exist.
func (r *Resolver) MediaDir() (string, error) {
	media := filepath.Join(r.root, MediaDirName)
	for _, name := range []string{ImagesDirName, SoundsDirName} {
		if err := ensureDir(filepath.Join(media, name)); err != nil {
			return "", err
		}
	}
	return media, nil
}

// CategoryDir returns <root>/media/<name>, creating the media tree if needed.
func (r *Resolver) CategoryDir(name string) (string, error) {
	if name != ImagesDirName && name != SoundsDirName {
		return "", fmt.Errorf("unknown media category %q", name)
	}
	media, err := r.MediaDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(media, name), nil
}

// LicensePath returns <root>/license.json, creating the root if needed.
func (r *Resolver) LicensePath() (string, error) {
	root, err := r.RootDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, LicenseFileName), nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return errs.IOFailure("ensure dir", fmt.Sprintf("failed to create %s", path), err)
	}
	return nil
}
