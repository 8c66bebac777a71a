package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// VerifySignature checks sigHex against payload under pubKeyHex. It recomputes
// nothing about the payload's provenance: the caller must pass exactly the
// signed_payload string embedded in the certificate, and the signature is
// verified over those bytes as provided.
func VerifySignature(pubKeyHex, sigHex string, payload []byte) (bool, error) {
	pubKey, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return false, fmt.Errorf("crypto: invalid public key hex: %w", err)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("crypto: public key has wrong size %d", len(pubKey))
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, fmt.Errorf("crypto: invalid signature hex: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return false, fmt.Errorf("crypto: signature has wrong size %d", len(sig))
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), payload, sig), nil
}
