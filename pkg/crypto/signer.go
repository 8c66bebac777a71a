package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Signer signs arbitrary byte payloads with Ed25519 (verification is
// VerifySignature in verifier.go). It only
// ever touches a certificate's pre-built signed_payload string; it never
// reaches into checkpoint or thinking content.
type Signer interface {
	Sign(payload []byte) (string, error)
	PublicKeyHex() string
	KeyID() string
}

// Ed25519Signer is the default Signer implementation.
type Ed25519Signer struct {
	priv  ed25519.PrivateKey
	pub   ed25519.PublicKey
	keyID string
}

// NewEd25519Signer generates a fresh keypair under the given key ID.
func NewEd25519Signer(keyID string) (*Ed25519Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: key generation failed: %w", err)
	}
	return &Ed25519Signer{priv: priv, pub: pub, keyID: keyID}, nil
}

// NewEd25519SignerFromKey wraps a caller-supplied private key. The core never
// opens files or handles itself; the caller is responsible for
// key material provenance (HSM, KMS, env var, whatever).
func NewEd25519SignerFromKey(priv ed25519.PrivateKey, keyID string) *Ed25519Signer {
	return &Ed25519Signer{
		priv:  priv,
		pub:   priv.Public().(ed25519.PublicKey),
		keyID: keyID,
	}
}

// Sign signs payload and returns the hex-encoded signature.
func (s *Ed25519Signer) Sign(payload []byte) (string, error) {
	sig := ed25519.Sign(s.priv, payload)
	return hex.EncodeToString(sig), nil
}

// PublicKeyHex returns the hex-encoded public key.
func (s *Ed25519Signer) PublicKeyHex() string {
	return hex.EncodeToString(s.pub)
}

// KeyID returns the caller-assigned identifier for this key.
func (s *Ed25519Signer) KeyID() string {
	return s.keyID
}
