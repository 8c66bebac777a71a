package contracts

// CertificateVersion is the current schema version carried by every certificate.
const CertificateVersion = "1.0.0"

// CertificateContext is the JSON-LD context identifying the certificate vocabulary.
const CertificateContext = "https://mnemom.ai/aip/v1"

// CertificateType is the JSON-LD @type of every certificate this core issues.
const CertificateType = "IntegrityCertificate"

// Subject identifies what a certificate attests to.
type Subject struct {
	CheckpointID string `json:"checkpoint_id"`
	AgentID      string `json:"agent_id"`
	SessionID    string `json:"session_id"`
	CardID       string `json:"card_id"`
}

// Claims carries the portion of the checkpoint's verdict restated for
// standalone (offline) readability. It never carries raw thinking content.
type Claims struct {
	Verdict            Verdict            `json:"verdict"`
	Concerns           []IntegrityConcern `json:"concerns"`
	Confidence         float64            `json:"confidence"`
	ReasoningSummary   string             `json:"reasoning_summary"`
	AnalysisModel      string             `json:"analysis_model"`
	AnalysisDurationMs int64              `json:"analysis_duration_ms"`
}

// InputCommitments binds the certificate to the inputs that produced the
// verdict without ever revealing them.
type InputCommitments struct {
	ThinkingBlockHash  string `json:"thinking_block_hash"`
	CardHash           string `json:"card_hash"`
	ValuesHash         string `json:"values_hash"`
	ContextHash        string `json:"context_hash"`
	ModelVersion       string `json:"model_version"`
	CombinedCommitment string `json:"combined_commitment"`
}

// ChainProof links one checkpoint's certificate to the previous one in its session.
type ChainProof struct {
	PrevChainHash string `json:"prev_chain_hash"`
	ChainHash     string `json:"chain_hash"`
}

// MerkleSide identifies which side of a node a sibling occupies.
type MerkleSide string

const (
	MerkleLeft  MerkleSide = "left"
	MerkleRight MerkleSide = "right"
)

// MerkleSibling is one step of an inclusion proof.
type MerkleSibling struct {
	Hash     string     `json:"hash"`
	Position MerkleSide `json:"position"`
}

// MerkleProof is an inclusion proof for a certificate's subject leaf in a
// batch's Merkle tree.
type MerkleProof struct {
	LeafHash string          `json:"leaf_hash"`
	Root     string          `json:"root"`
	Siblings []MerkleSibling `json:"siblings"`
}

// VerdictDerivationProof wraps an externally produced STARK receipt attesting
// that the verdict was derived from the committed inputs. Its internal
// validity is out of scope for this core; only structural agreement with the
// certificate's own claims/commitments is checked.
type VerdictDerivationProof struct {
	ReceiptFormat string         `json:"receipt_format"`
	ImageID       string         `json:"image_id,omitempty"`
	Journal       DerivationJournal `json:"journal"`
	Receipt       []byte         `json:"receipt"`
}

// DerivationJournal is the structured claim a verdict-derivation receipt exposes.
type DerivationJournal struct {
	Verdict      Verdict `json:"verdict"`
	ThinkingHash string  `json:"thinking_hash"`
	CardHash     string  `json:"card_hash"`
	ValuesHash   string  `json:"values_hash"`
}

// Proofs bundles every attestation attached to a certificate. Merkle and
// VerdictDerivation are optional.
type Proofs struct {
	Signature          string                  `json:"signature"`
	SignerKeyID        string                  `json:"signer_key_id"`
	Chain              ChainProof              `json:"chain"`
	Merkle             *MerkleProof            `json:"merkle,omitempty"`
	VerdictDerivation  *VerdictDerivationProof `json:"verdict_derivation,omitempty"`
}

// Links carries out-of-band URLs; offline verification never dereferences these.
type Links struct {
	KeyURL    string `json:"key_url,omitempty"`
	SelfURL   string `json:"self_url,omitempty"`
	VerifyURL string `json:"verify_url,omitempty"`
}

// IntegrityCertificate is a self-describing, signed envelope attesting to one checkpoint.
type IntegrityCertificate struct {
	Context          string           `json:"@context"`
	Type             string           `json:"@type"`
	Version          string           `json:"version"`
	CertificateID    string           `json:"certificate_id"`
	Subject          Subject          `json:"subject"`
	Claims           Claims           `json:"claims"`
	InputCommitments InputCommitments `json:"input_commitments"`
	Proofs           Proofs           `json:"proofs"`
	Links            Links            `json:"links,omitempty"`
	SignedPayload    string           `json:"signed_payload"`
}

// VerificationChecks records the outcome of each independent verification
// step. A nil pointer means the check was skipped, not failed.
type VerificationChecks struct {
	Signature         bool  `json:"signature"`
	Chain             bool  `json:"chain"`
	Schema            bool  `json:"schema"`
	Merkle            *bool `json:"merkle,omitempty"`
	VerdictDerivation *bool `json:"verdict_derivation,omitempty"`
}

// VerificationResult is the outcome of offline certificate verification.
type VerificationResult struct {
	Valid  bool                `json:"valid"`
	Checks VerificationChecks  `json:"checks"`
}
