// Package checksum computes content digests used for change detection and ETags.
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

// SumString is Sum for string input.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Matches reports whether an If-None-Match style header value refers to sum.
// Surrounding quotes are ignored.
func Matches(header, sum string) bool {
	return header != "" && strings.Trim(header, `"`) == sum
}
