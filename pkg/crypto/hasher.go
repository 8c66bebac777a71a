// Package crypto provides the hash, canonicalization, and signature
// primitives the rest of the core builds on: SHA-256 content hashing,
// RFC 8785 JSON canonicalization, Ed25519 signing/verification, and
// constant-time HMAC for the webhook framing primitive.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ThinkingHash computes the checkpoint's thinking_block_hash. Content is
// normalized to NFC first so that byte-distinct but canonically equivalent
// thinking blocks (e.g. differing only in combining-character form) hash
// identically; the raw content itself is discarded by every caller
// immediately after this call.
func ThinkingHash(content string) string {
	normalized := norm.NFC.String(content)
	return SHA256Hex([]byte(normalized))
}

// NoneHash is the sentinel thinking_block_hash used when no thinking block
// was extracted at all.
const NoneHash = "none"
