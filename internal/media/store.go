package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"localkeep/internal/errs"
	"localkeep/internal/hasher"
	"localkeep/internal/journal"
	"localkeep/internal/paths"
)

const filePerm = 0o644

// Category is a disjoint media namespace.
type Category string

const (
	Images Category = paths.ImagesDirName
	Sounds Category = paths.SoundsDirName
)

// Categories lists every supported category.
func Categories() []Category {
	return []Category{Images, Sounds}
}

// Valid reports whether c is a supported category.
func (c Category) Valid() bool {
	return c == Images || c == Sounds
}

// ParseCategory accepts plural names and the singular aliases image and sound.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "images", "image":
		return Images, nil
	case "sounds", "sound":
		return Sounds, nil
	default:
		return "", fmt.Errorf("unknown media category %q (allowed: images, sounds)", raw)
	}
}

// Options configures a Store.
type Options struct {
	Logger   *slog.Logger
	Recorder journal.Recorder
}

// Store keeps blobs under <root>/media/<category>/<sha256 hex>.
// Identical content in one category collapses to one file.
type Store struct {
	paths    *paths.Resolver
	logger   *slog.Logger
	recorder journal.Recorder
}

// NewStore creates a media store.
func NewStore(resolver *paths.Resolver, opts Options) (*Store, error) {
	if resolver == nil {
		return nil, fmt.Errorf("path resolver is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "media")
	}
	return &Store{paths: resolver, logger: logger, recorder: opts.Recorder}, nil
}

// Upload stores data and returns its digest.
func (s *Store) Upload(ctx context.Context, data []byte, cat Category) (string, error) {
	digest, _, err := s.UploadReader(ctx, bytes.NewReader(data), cat)
	return digest, err
}

// UploadReader streams r into the store and returns its digest and size.
// An existing blob with the same digest is replaced with identical bytes.
func (s *Store) UploadReader(ctx context.Context, r io.Reader, cat Category) (string, int64, error) {
	if r == nil {
		return "", 0, fmt.Errorf("reader is required")
	}
	dir, err := s.categoryDir(cat)
	if err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", 0, errs.IOFailure("upload", "failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	digest, n, err := hasher.DigestReader(io.TeeReader(r, tmp))
	if err != nil {
		cleanup()
		return "", 0, errs.IOFailure("upload", "failed to write media", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		cleanup()
		return "", 0, errs.IOFailure("upload", "failed to write media", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", 0, errs.IOFailure("upload", "failed to write media", err)
	}

	dst := filepath.Join(dir, digest)
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, errs.IOFailure("upload", "failed to store media", err)
	}

	s.logger.Debug("media stored", "category", string(cat), "hash", digest, "size", n)
	s.record(ctx, journal.Event{
		Kind:    journal.KindMediaUploaded,
		Subject: string(cat) + "/" + digest,
		Detail:  fmt.Sprintf("size=%d", n),
	})
	return digest, n, nil
}

// Get returns the bytes stored under hash.
func (s *Store) Get(_ context.Context, hash string, cat Category) ([]byte, error) {
	if !hasher.Valid(hash) {
		return nil, errs.NotFound("get", fmt.Sprintf("invalid media hash %q", hash), nil)
	}
	dir, err := s.categoryDir(cat)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.NotFound("get", fmt.Sprintf("%s %s not found", cat.singular(), hash), err)
		}
		return nil, errs.IOFailure("get", fmt.Sprintf("failed to read %s %s", cat.singular(), hash), err)
	}
	return data, nil
}

func (s *Store) categoryDir(cat Category) (string, error) {
	if !cat.Valid() {
		return "", fmt.Errorf("unknown media category %q", string(cat))
	}
	return s.paths.CategoryDir(string(cat))
}

func (s *Store) record(ctx context.Context, ev journal.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.Warn("journal record failed", "kind", ev.Kind, "error", err)
	}
}

func (c Category) singular() string {
	return strings.TrimSuffix(string(c), "s")
}
