package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"localkeep/internal/errs"
	"localkeep/internal/hasher"
	"localkeep/internal/journal"
	"localkeep/internal/paths"
)

type fakeRecorder struct {
	events []journal.Event
}

func (r *fakeRecorder) Record(_ context.Context, ev journal.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func testStore(t *testing.T) (*Store, string, *fakeRecorder) {
	t.Helper()
	root := t.TempDir()
	resolver, err := paths.New(root)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	recorder := &fakeRecorder{}
	st, err := NewStore(resolver, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Recorder: recorder,
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st, root, recorder
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestUploadGetRoundTrip(t *testing.T) {
	st, root, _ := testStore(t)
	ctx := context.Background()

	payloads := [][]byte{
		[]byte("hello"),
		{},
		bytes.Repeat([]byte{0x00, 0xff}, 1<<16),
	}
	for _, data := range payloads {
		hash, err := st.Upload(ctx, data, Images)
		if err != nil {
			t.Fatalf("upload %d bytes: %v", len(data), err)
		}
		if hash != hasher.Digest(data) {
			t.Fatalf("expected hash %s, got %s", hasher.Digest(data), hash)
		}
		if _, err := os.Stat(filepath.Join(root, "media", "images", hash)); err != nil {
			t.Fatalf("expected blob on disk: %v", err)
		}

		got, err := st.Get(ctx, hash, Images)
		if err != nil {
			t.Fatalf("get %s: %v", hash, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch for %d bytes", len(data))
		}
	}
}

func TestUploadIsIdempotent(t *testing.T) {
	st, root, recorder := testStore(t)
	ctx := context.Background()

	first, err := st.Upload(ctx, []byte("chime"), Sounds)
	if err != nil {
		t.Fatalf("upload first: %v", err)
	}
	second, err := st.Upload(ctx, []byte("chime"), Sounds)
	if err != nil {
		t.Fatalf("upload second: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical hashes, got %s and %s", first, second)
	}

	names := dirEntries(t, filepath.Join(root, "media", "sounds"))
	if len(names) != 1 || names[0] != first {
		t.Fatalf("expected a single stored file, got %v", names)
	}
	if len(recorder.events) != 2 || recorder.events[0].Subject != "sounds/"+first {
		t.Fatalf("unexpected journal events %#v", recorder.events)
	}
}

func TestCategoriesAreIndependent(t *testing.T) {
	st, root, _ := testStore(t)
	ctx := context.Background()
	data := []byte("same bytes")

	imageHash, err := st.Upload(ctx, data, Images)
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	soundHash, err := st.Upload(ctx, data, Sounds)
	if err != nil {
		t.Fatalf("upload sound: %v", err)
	}
	if imageHash != soundHash {
		t.Fatalf("expected same digest, got %s and %s", imageHash, soundHash)
	}

	imagePath := filepath.Join(root, "media", "images", imageHash)
	soundPath := filepath.Join(root, "media", "sounds", soundHash)
	if err := os.Remove(imagePath); err != nil {
		t.Fatalf("remove image: %v", err)
	}
	if _, err := st.Get(ctx, imageHash, Images); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected image to be gone, got %v", err)
	}
	got, err := st.Get(ctx, soundHash, Sounds)
	if err != nil {
		t.Fatalf("get sound: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("sound content changed")
	}
	if _, err := os.Stat(soundPath); err != nil {
		t.Fatalf("expected sound file to remain: %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	st, _, _ := testStore(t)
	hash := hasher.Digest([]byte("never uploaded"))

	_, err := st.Get(context.Background(), hash, Images)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !errors.Is(err, errs.ErrIOFailure) {
		t.Fatalf("expected not found to also be an io failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "image "+hash+" not found") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestGetRejectsMalformedHash(t *testing.T) {
	st, _, _ := testStore(t)
	for _, hash := range []string{"", "../license.json", "abc", strings.Repeat("A", hasher.DigestLength)} {
		_, err := st.Get(context.Background(), hash, Sounds)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("get(%q): expected not found, got %v", hash, err)
		}
	}
}

func TestGetUnreadable(t *testing.T) {
	st, root, _ := testStore(t)
	hash := hasher.Digest([]byte("dir"))
	if err := os.MkdirAll(filepath.Join(root, "media", "images", hash), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := st.Get(context.Background(), hash, Images)
	if !errors.Is(err, errs.ErrIOFailure) {
		t.Fatalf("expected io failure, got %v", err)
	}
	if errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected unreadable blob not to be reported as missing, got %v", err)
	}
}

func TestUploadRecreatesTree(t *testing.T) {
	st, root, _ := testStore(t)
	if err := os.RemoveAll(filepath.Join(root, "media")); err != nil {
		t.Fatalf("remove media: %v", err)
	}
	hash, err := st.Upload(context.Background(), []byte("beep"), Sounds)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "media", "sounds", hash)); err != nil {
		t.Fatalf("expected blob after tree recreation: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "media", "images")); err != nil {
		t.Fatalf("expected images dir after tree recreation: %v", err)
	}
}

func TestUploadFailure(t *testing.T) {
	st, root, _ := testStore(t)
	data := []byte("blocked")
	hash := hasher.Digest(data)
	if err := os.MkdirAll(filepath.Join(root, "media", "images", hash, "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := st.Upload(context.Background(), data, Images)
	if !errors.Is(err, errs.ErrIOFailure) {
		t.Fatalf("expected io failure, got %v", err)
	}
	for _, name := range dirEntries(t, filepath.Join(root, "media", "images")) {
		if strings.HasPrefix(name, ".upload-") {
			t.Fatalf("temp file left behind: %s", name)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device unplugged") }

func TestUploadReaderError(t *testing.T) {
	st, root, _ := testStore(t)
	_, _, err := st.UploadReader(context.Background(), failingReader{}, Images)
	if !errors.Is(err, errs.ErrIOFailure) {
		t.Fatalf("expected io failure, got %v", err)
	}
	if names := dirEntries(t, filepath.Join(root, "media", "images")); len(names) != 0 {
		t.Fatalf("expected no files after failed upload, got %v", names)
	}
}

func TestUnknownCategory(t *testing.T) {
	st, _, _ := testStore(t)
	if _, err := st.Upload(context.Background(), []byte("x"), Category("videos")); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if _, err := st.Get(context.Background(), hasher.Digest([]byte("x")), Category("videos")); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw     string
		want    Category
		wantErr bool
	}{
		{raw: "images", want: Images},
		{raw: "Image", want: Images},
		{raw: " sounds ", want: Sounds},
		{raw: "sound", want: Sounds},
		{raw: "video", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseCategory(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseCategory(%q): expected %q, got %q (err %v)", tt.raw, tt.want, got, err)
		}
	}
	if len(Categories()) != 2 {
		t.Fatalf("expected two categories, got %v", Categories())
	}
}
