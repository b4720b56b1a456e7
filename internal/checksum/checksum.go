// Package checksum provides content digests used for change detection and
// stable short identifiers embedded in sanitised output filenames.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short returns a 6-character hex digest of s. It is stable across runs and
// platforms, which keeps generated filenames byte-identical between builds.
func Short(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))[:6]
}
