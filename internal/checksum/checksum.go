// Package checksum fingerprints template sources for change detection and
// HTTP caching.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong entity tag for a checksum produced by Sum (or a
// provider such as a git blob SHA).
func ETag(sum string) string {
	return `"` + sum + `"`
}

// MatchETag reports whether an If-None-Match header value matches etag.
// Weak tags compare equal to their strong form and "*" matches anything.
func MatchETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
