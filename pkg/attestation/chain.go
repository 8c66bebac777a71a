package attestation

import (
	"github.com/mnemom/aip/pkg/crypto"
)

// GenesisPrev is the literal prev value used for the first checkpoint in a
// chain.
const GenesisPrev = "genesis"

// ChainHash computes the deterministic, pipe-separated, fixed-field-order
// preimage and SHA-256-hex hashes it. issuedAt is the
// RFC3339Nano-formatted timestamp embedded verbatim in the preimage, so
// verification can recompute this hash from the certificate alone.
func ChainHash(prev, checkpointID, verdict, thinkingBlockHash, combinedCommitment, issuedAt string) string {
	preimage := prev + "|" + checkpointID + "|" + verdict + "|" + thinkingBlockHash + "|" +
		combinedCommitment + "|" + issuedAt
	return crypto.SHA256Hex([]byte(preimage))
}
