package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"localkeep/internal/errs"
	"localkeep/internal/journal"
	"localkeep/internal/paths"
)

const filePerm = 0o644

// Record is the persisted proof of activation.
type Record struct {
	Key         string `json:"key" yaml:"key"`
	ActivatedAt uint64 `json:"activated_at" yaml:"activated_at"`
}

// rawRecord requires both fields to be present on disk.
type rawRecord struct {
	Key         *string `json:"key"`
	ActivatedAt *uint64 `json:"activated_at"`
}

// Options configures a Store.
type Options struct {
	Logger   *slog.Logger
	Recorder journal.Recorder
	Now      func() time.Time
}

// Store persists a single license record under the resolver's root.
// It takes no locks; concurrent writers are last-writer-wins.
type Store struct {
	paths    *paths.Resolver
	logger   *slog.Logger
	recorder journal.Recorder
	now      func() time.Time
}

// NewStore creates a license store.
func NewStore(resolver *paths.Resolver, opts Options) (*Store, error) {
	if resolver == nil {
		return nil, fmt.Errorf("path resolver is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "license")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{paths: resolver, logger: logger, recorder: opts.Recorder, now: now}, nil
}

// Check reports whether a valid license record is stored. Corrupt or invalid
// records are deleted and reported as absent. It never returns an error.
func (s *Store) Check(ctx context.Context) bool {
	_, ok := s.Load(ctx)
	return ok
}

// Load returns the stored record, applying the same recovery policy as Check.
func (s *Store) Load(ctx context.Context) (Record, bool) {
	path, err := s.paths.LicensePath()
	if err != nil {
		s.logger.Warn("license path unavailable", "error", err)
		return Record{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("license file unreadable", "path", path, "error", err)
		}
		return Record{}, false
	}

	rec, err := decodeRecord(data)
	if err != nil {
		s.discardRecord(ctx, path, "unparsable license record", err)
		return Record{}, false
	}
	if !IsValid(rec.Key) {
		s.discardRecord(ctx, path, "stored license key failed validation", nil)
		return Record{}, false
	}
	return rec, true
}

// Activate validates key and overwrites the stored record.
func (s *Store) Activate(ctx context.Context, key string) (bool, error) {
	key = Normalize(key)
	if key == "" {
		return false, errs.InvalidKey("activate", "license key cannot be empty")
	}
	if !IsValid(key) {
		return false, errs.InvalidKey("activate", "invalid license key format, expected "+KeyFormat)
	}

	rec := Record{Key: key, ActivatedAt: uint64(s.now().Unix())}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return false, errs.IOFailure("activate", "failed to serialize license", err)
	}

	path, err := s.paths.LicensePath()
	if err != nil {
		return false, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return false, errs.IOFailure("activate", "failed to save license", err)
	}

	s.logger.Info("license activated", "path", path, "activated_at", rec.ActivatedAt)
	s.record(ctx, journal.Event{Kind: journal.KindLicenseActivated, Subject: paths.LicenseFileName})
	return true, nil
}

// Remove deletes the stored record. A missing record is not an error.
func (s *Store) Remove(ctx context.Context) (bool, error) {
	path, err := s.paths.LicensePath()
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, errs.IOFailure("remove", "failed to remove license", err)
	}

	s.logger.Info("license removed", "path", path)
	s.record(ctx, journal.Event{Kind: journal.KindLicenseRemoved, Subject: paths.LicenseFileName})
	return true, nil
}

func (s *Store) discardRecord(ctx context.Context, path, reason string, cause error) {
	attrs := []any{"path", path, "reason", reason}
	if cause != nil {
		attrs = append(attrs, "error", cause)
	}
	s.logger.Warn("discarding license record", attrs...)

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to delete license record", "path", path, "error", err)
	}

	detail := reason
	if cause != nil {
		detail = fmt.Sprintf("%s: %v", reason, cause)
	}
	s.record(ctx, journal.Event{Kind: journal.KindLicenseRecovered, Subject: paths.LicenseFileName, Detail: detail})
}

func (s *Store) record(ctx context.Context, ev journal.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.Warn("journal record failed", "kind", ev.Kind, "error", err)
	}
}

func decodeRecord(data []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, err
	}
	if raw.Key == nil {
		return Record{}, fmt.Errorf("missing field key")
	}
	if raw.ActivatedAt == nil {
		return Record{}, fmt.Errorf("missing field activated_at")
	}
	return Record{Key: *raw.Key, ActivatedAt: *raw.ActivatedAt}, nil
}

// writeFileAtomic replaces path with data via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".license-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
