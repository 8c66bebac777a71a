// Package attestation turns an IntegrityCheckpoint into a portable, signed
// IntegrityCertificate: a chain hash linking it to its session's prior
// checkpoint, an optional Merkle inclusion proof against a batch root, and an
// Ed25519 signature over the certificate's own canonical payload.
// Verification is entirely offline; nothing here calls a network.
package attestation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemom/aip/pkg/contracts"
	"github.com/mnemom/aip/pkg/crypto"
)

// Inputs bundles everything Certify needs beyond the checkpoint
// itself.
type Inputs struct {
	Checkpoint       contracts.IntegrityCheckpoint
	Card             *contracts.AlignmentCard
	ConscienceValues []contracts.ConscienceValue
	PrevChainHash    string // GenesisPrev for the first checkpoint in a session
	Confidence       float64
	ModelVersion     string
	Links            contracts.Links
	Merkle           *contracts.MerkleProof // nil if this checkpoint wasn't batched
}

// Certify assembles and signs an IntegrityCertificate for one checkpoint.
func Certify(in Inputs, signer crypto.Signer) (contracts.IntegrityCertificate, error) {
	cardHash, err := crypto.CanonicalHash(in.Card)
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("attestation: card hash: %w", err)
	}
	valuesHash, err := crypto.CanonicalHash(in.ConscienceValues)
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("attestation: values hash: %w", err)
	}
	contextHash, err := crypto.CanonicalHash(in.Checkpoint.ConscienceContext)
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("attestation: context hash: %w", err)
	}

	commitments := contracts.InputCommitments{
		ThinkingBlockHash: in.Checkpoint.ThinkingBlockHash,
		CardHash:          cardHash,
		ValuesHash:        valuesHash,
		ContextHash:       contextHash,
		ModelVersion:      in.ModelVersion,
	}
	combined, err := crypto.CanonicalHash(commitments)
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("attestation: combined commitment: %w", err)
	}
	commitments.CombinedCommitment = combined

	prev := in.PrevChainHash
	if prev == "" {
		prev = GenesisPrev
	}
	issuedAt := time.Now().UTC().Format(time.RFC3339Nano)
	chainHash := ChainHash(prev, in.Checkpoint.CheckpointID, string(in.Checkpoint.Verdict),
		in.Checkpoint.ThinkingBlockHash, commitments.CombinedCommitment, issuedAt)

	cert := contracts.IntegrityCertificate{
		Context:       contracts.CertificateContext,
		Type:          contracts.CertificateType,
		Version:       contracts.CertificateVersion,
		CertificateID: "cert-" + uuid.NewString(),
		Subject: contracts.Subject{
			CheckpointID: in.Checkpoint.CheckpointID,
			AgentID:      in.Checkpoint.AgentID,
			SessionID:    in.Checkpoint.SessionID,
			CardID:       in.Checkpoint.CardID,
		},
		Claims: contracts.Claims{
			Verdict:            in.Checkpoint.Verdict,
			Concerns:           in.Checkpoint.Concerns,
			Confidence:         in.Confidence,
			ReasoningSummary:   in.Checkpoint.ReasoningSummary,
			AnalysisModel:      in.Checkpoint.AnalysisMetadata.AnalysisModel,
			AnalysisDurationMs: in.Checkpoint.AnalysisMetadata.AnalysisDurationMs,
		},
		InputCommitments: commitments,
		Proofs: contracts.Proofs{
			SignerKeyID: signer.KeyID(),
			Chain: contracts.ChainProof{
				PrevChainHash: prev,
				ChainHash:     chainHash,
			},
			Merkle: in.Merkle,
		},
		Links: in.Links,
	}

	signedPayload, err := crypto.CanonicalJSON(signablePayload{
		Context:          cert.Context,
		Type:             cert.Type,
		Version:          cert.Version,
		CertificateID:    cert.CertificateID,
		Subject:          cert.Subject,
		Claims:           cert.Claims,
		InputCommitments: cert.InputCommitments,
		Chain:            cert.Proofs.Chain,
		IssuedAt:         issuedAt,
	})
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("attestation: signed payload: %w", err)
	}
	cert.SignedPayload = string(signedPayload)

	signature, err := signer.Sign(signedPayload)
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("attestation: sign: %w", err)
	}
	cert.Proofs.Signature = signature

	return cert, nil
}

// signablePayload is the exact shape serialized as a certificate's
// signed_payload. It deliberately omits Proofs.Signature/Merkle/VerdictDerivation
// and Links: none of those exist yet at signing time or are immaterial to
// what is being attested.
type signablePayload struct {
	Context          string                     `json:"@context"`
	Type             string                     `json:"@type"`
	Version          string                     `json:"version"`
	CertificateID    string                     `json:"certificate_id"`
	Subject          contracts.Subject          `json:"subject"`
	Claims           contracts.Claims           `json:"claims"`
	InputCommitments contracts.InputCommitments `json:"input_commitments"`
	Chain            contracts.ChainProof       `json:"chain"`
	IssuedAt         string                     `json:"issued_at"`
}
