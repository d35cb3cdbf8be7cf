package license

import (
	"strings"
	"testing"
)

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "checksum 150", key: "AAAAA-AAAA0-00000-00000-000SZ", want: true},
		{name: "lowercase accepted by validator", key: "aaaaa-aaaa0-00000-00000-000sz", want: true},
		{name: "empty", key: "", want: false},
		{name: "too short", key: "AAAAA-AAAAA-AAAAA-AAAAA-AAAA", want: false},
		{name: "too long", key: "AAAAA-AAAA0-00000-00000-000SZZ", want: false},
		{name: "no separators", key: "AAAAAAAAA000000000000000SZ000", want: false},
		{name: "wrong grouping", key: "AAAA-AAAAA0-00000-00000-000SZ", want: false},
		{name: "six segments", key: "AAAA-AAAA-0000-0000-0000-0SZZ", want: false},
		{name: "underscore", key: "AAAAA-AAAA_-00000-00000-000SZ", want: false},
		{name: "space", key: "AAAAA-AAAA -00000-00000-000SZ", want: false},
		{name: "leading whitespace", key: " AAAAA-AAAA0-00000-00000-000S", want: false},
		{name: "non ascii", key: "AAAAA-AAAÄ-00000-00000-000SZ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.key); got != tt.want {
				t.Fatalf("IsValid(%q): expected %v, got %v (checksum %d)", tt.key, tt.want, got, Checksum(tt.key))
			}
		})
	}
}

func TestIsValidChecksumBoundaries(t *testing.T) {
	tests := []struct {
		key      string
		checksum int
		want     bool
	}{
		{key: "AAAAA-A0000-00000-00000-000SZ", checksum: 99, want: false},
		{key: "AAAAA-A0000-00000-00000-000TZ", checksum: 100, want: true},
		{key: "AAAAA-AAAA0-00000-00000-000SZ", checksum: 150, want: true},
		{key: "00000-00000-00000-00000-000UZ", checksum: 255, want: true},
		{key: "00000-00000-00000-00000-000VZ", checksum: 0, want: false},
		{key: "00000-00000-00000-00000-000WZ", checksum: 1, want: false},
		{key: "AAAAA-AAAAA-AAAAA-AAAAA-AAAAA", checksum: 89, want: false},
	}

	for _, tt := range tests {
		if got := Checksum(tt.key); got != tt.checksum {
			t.Fatalf("Checksum(%q): expected %d, got %d", tt.key, tt.checksum, got)
		}
		if got := IsValid(tt.key); got != tt.want {
			t.Fatalf("IsValid(%q): expected %v, got %v", tt.key, tt.want, got)
		}
	}
}

func TestIsValidLowercaseUsesOwnChecksum(t *testing.T) {
	// Lowercase letters shift the sum by 32 each, so case matters to the checksum.
	key := "aaaaa-a0000-00000-00000-00000"
	sum := 6*int('a') + 19*int('0')
	if got := Checksum(key); got != sum%256 {
		t.Fatalf("expected checksum %d, got %d", sum%256, got)
	}
	if !IsValid(key) {
		t.Fatalf("expected %q (checksum %d) to be valid", key, Checksum(key))
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  aaaaa-a0000-00000-00000-000tz\n")
	if got != "AAAAA-A0000-00000-00000-000TZ" {
		t.Fatalf("unexpected normalized key %q", got)
	}
	if Normalize(" \t ") != "" {
		t.Fatal("expected whitespace-only input to normalize to empty")
	}
	if len(KeyFormat) != keyLength || strings.Count(KeyFormat, "-") != segmentCount-1 {
		t.Fatalf("key format %q does not match validator shape", KeyFormat)
	}
}
