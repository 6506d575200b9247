package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// ParseHashAlgo maps a configuration value onto a supported algorithm.
// The empty string selects BLAKE3.
func ParseHashAlgo(name string) (HashAlgo, error) {
	switch HashAlgo(strings.ToLower(strings.TrimSpace(name))) {
	case "", HashAlgoBLAKE3:
		return HashAlgoBLAKE3, nil
	case HashAlgoSHA256:
		return HashAlgoSHA256, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
// Supported algorithms: "sha256" and "blake3".
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:]), nil
	case HashAlgoBLAKE3:
		hash := blake3.Sum256(data)
		return hex.EncodeToString(hash[:]), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// DigestBody hashes an opaque request body. Strings and byte slices are hashed
// as-is, fmt.Stringer values through their String form. A nil body has no
// digest and yields the empty string.
func DigestBody(body any, algo HashAlgo) (string, error) {
	switch b := body.(type) {
	case nil:
		return "", nil
	case string:
		return HashBytes([]byte(b), algo)
	case []byte:
		return HashBytes(b, algo)
	case fmt.Stringer:
		return HashBytes([]byte(b.String()), algo)
	default:
		return HashBytes([]byte(fmt.Sprintf("%v", b)), algo)
	}
}
