package license

import "strings"

const (
	// KeyFormat is the canonical shape of an activation key.
	KeyFormat = "XXXXX-XXXXX-XXXXX-XXXXX-XXXXX"

	keyLength     = 29
	segmentCount  = 5
	segmentLength = 5

	checksumModulus = 256
	checksumMin     = 100
	checksumMax     = 255
)

// Normalize trims surrounding whitespace and upper-cases raw.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsValid reports whether key has the canonical format and an in-range checksum.
//
// The checksum is an additive sum of character codes mod 256. It filters
// typos and random guesses only; anyone can construct a passing key.
// Changing it changes which issued keys are accepted.
func IsValid(key string) bool {
	if len(key) != keyLength {
		return false
	}
	segments := strings.Split(key, "-")
	if len(segments) != segmentCount {
		return false
	}
	for _, segment := range segments {
		if len(segment) != segmentLength {
			return false
		}
		for i := 0; i < len(segment); i++ {
			if !isASCIIAlphanumeric(segment[i]) {
				return false
			}
		}
	}
	sum := Checksum(key)
	return sum >= checksumMin && sum <= checksumMax
}

// Checksum sums the byte values of every non-separator character of key, mod 256.
func Checksum(key string) int {
	sum := 0
	for i := 0; i < len(key); i++ {
		if key[i] == '-' {
			continue
		}
		sum = (sum + int(key[i])) % checksumModulus
	}
	return sum
}

func isASCIIAlphanumeric(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
