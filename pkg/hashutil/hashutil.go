// Package hashutil provides content hashing: blake3 for speed on large
// bodies, sha256 kept as a fallback algorithm selector.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// HashBytes returns the hex-encoded hash of data using the given algorithm.
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	case HashAlgoBLAKE3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("hashutil: unsupported algorithm %q", algo)
	}
}

// URLKey hashes a canonical URL string down to a fixed-width storage key,
// used by the persister to name raw-blob entries.
func URLKey(canonicalURL string) string {
	sum := blake3.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(sum[:])[:16]
}
