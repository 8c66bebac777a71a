package attestation

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"

	"github.com/mnemom/aip/pkg/contracts"
	"github.com/mnemom/aip/pkg/crypto"
)

// supportedCertificateVersions bounds the certificate versions this core's
// verifier accepts. A future major-version certificate (a breaking change to
// the certificate shape) is rejected rather than verified against a schema
// this code doesn't actually know.
const supportedCertificateVersions = "^1.0.0"

// VerifyOptions carries the caller-supplied material offline verification
// needs beyond the certificate itself. Every field is optional; an absent
// field skips (does not fail) the check it would have driven.
type VerifyOptions struct {
	PublicKeyHex string
	ExpectedRoot string
	ExpectedImageID string
}

// Verify runs every applicable check against cert and ANDs the results of
// the checks that ran. A check whose precondition is unmet is skipped, never
// failed: without an expected root or a verdict-derivation proof the Merkle
// or derivation check is reported as nil; without a public key the signature
// check is reported as false and left out of the AND.
func Verify(cert contracts.IntegrityCertificate, opts VerifyOptions) (contracts.VerificationResult, error) {
	var checks contracts.VerificationChecks

	if opts.PublicKeyHex != "" {
		ok, err := crypto.VerifySignature(opts.PublicKeyHex, cert.Proofs.Signature, []byte(cert.SignedPayload))
		if err != nil {
			return contracts.VerificationResult{}, err
		}
		checks.Signature = ok
	}

	recomputed := ChainHash(cert.Proofs.Chain.PrevChainHash, cert.Subject.CheckpointID,
		string(cert.Claims.Verdict), cert.InputCommitments.ThinkingBlockHash,
		cert.InputCommitments.CombinedCommitment, issuedAtFromPayload(cert))
	checks.Chain = recomputed == cert.Proofs.Chain.ChainHash

	checks.Schema = verifySchema(cert)

	if cert.Proofs.Merkle != nil && opts.ExpectedRoot != "" {
		siblings := make([]Sibling, len(cert.Proofs.Merkle.Siblings))
		for i, s := range cert.Proofs.Merkle.Siblings {
			siblings[i] = Sibling{Hash: s.Hash, Position: string(s.Position)}
		}
		ok := VerifyInclusion(cert.Proofs.Merkle.LeafHash, siblings, opts.ExpectedRoot)
		checks.Merkle = &ok
	}

	if cert.Proofs.VerdictDerivation != nil {
		ok := verifyDerivation(cert, opts)
		checks.VerdictDerivation = &ok
	}

	valid := checks.Signature && checks.Chain && checks.Schema
	if opts.PublicKeyHex == "" {
		// Signature check was skipped: do not let its zero-value false
		// value pull overall validity down. Only checks actually run
		// participate in the AND.
		valid = checks.Chain && checks.Schema
	}
	if checks.Merkle != nil {
		valid = valid && *checks.Merkle
	}
	if checks.VerdictDerivation != nil {
		valid = valid && *checks.VerdictDerivation
	}

	return contracts.VerificationResult{Valid: valid, Checks: checks}, nil
}

// verifySchema asserts the certificate is self-describing (carries the
// JSON-LD @context/@type it claims) and that its version falls within the
// range this verifier understands. A certificate failing either is not
// something this code can safely interpret, regardless of what its
// signature or chain hash say.
func verifySchema(cert contracts.IntegrityCertificate) bool {
	if cert.Context != contracts.CertificateContext || cert.Type != contracts.CertificateType {
		return false
	}
	version, err := semver.NewVersion(cert.Version)
	if err != nil {
		return false
	}
	constraint, err := semver.NewConstraint(supportedCertificateVersions)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

func verifyDerivation(cert contracts.IntegrityCertificate, opts VerifyOptions) bool {
	j := cert.Proofs.VerdictDerivation.Journal
	if j.Verdict != cert.Claims.Verdict {
		return false
	}
	if j.ThinkingHash != cert.InputCommitments.ThinkingBlockHash {
		return false
	}
	if j.CardHash != cert.InputCommitments.CardHash {
		return false
	}
	if j.ValuesHash != cert.InputCommitments.ValuesHash {
		return false
	}
	if opts.ExpectedImageID != "" && cert.Proofs.VerdictDerivation.ImageID != opts.ExpectedImageID {
		return false
	}
	return true
}

// issuedAtFromPayload recovers the issued_at timestamp embedded in
// signed_payload so the chain hash can be recomputed without the certificate
// carrying a second, separate copy of it. The signed_payload's JSON shape is
// this package's own; see signablePayload in certificate.go.
func issuedAtFromPayload(cert contracts.IntegrityCertificate) string {
	var parsed struct {
		IssuedAt string `json:"issued_at"`
	}
	if err := json.Unmarshal([]byte(cert.SignedPayload), &parsed); err != nil {
		return ""
	}
	return parsed.IssuedAt
}
