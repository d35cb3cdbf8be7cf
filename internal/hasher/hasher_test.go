package hasher

import (
	"bytes"
	"strings"
	"testing"
)

func TestDigestKnownVectors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{in: "hello", want: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}
	for _, tt := range tests {
		if got := Digest([]byte(tt.in)); got != tt.want {
			t.Fatalf("digest(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestDigestReaderMatchesDigest(t *testing.T) {
	data := bytes.Repeat([]byte{0x00, 0xff, 0x10}, 4096)
	got, n, err := DigestReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("digest reader: %v", err)
	}
	if n != int64(len(data)) {
		t.Fatalf("expected %d bytes, got %d", len(data), n)
	}
	if got != Digest(data) {
		t.Fatalf("reader digest %s differs from %s", got, Digest(data))
	}
}

func TestValid(t *testing.T) {
	if !Valid(Digest([]byte("x"))) {
		t.Fatal("expected digest to be valid")
	}
	for _, s := range []string{
		"",
		"abc",
		strings.ToUpper(Digest([]byte("x"))),
		"../" + Digest([]byte("x"))[3:],
		strings.Repeat("g", DigestLength),
	} {
		if Valid(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
