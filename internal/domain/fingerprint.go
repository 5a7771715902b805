package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLen is the length of a hex-encoded content fingerprint.
const fingerprintLen = 32

// ContentFingerprint computes a deterministic short digest of the given text,
// used to detect duplicate resource captures. The same input always produces
// the same fingerprint.
func ContentFingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
