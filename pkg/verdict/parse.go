package verdict

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemom/aip/pkg/contracts"
)

// ExtractionMeta carries everything about how the thinking block reached the
// analysis model, supplied by the caller rather than derived here.
type ExtractionMeta struct {
	ThinkingBlockHash string
	Provider          string
	Model             string
	TokensOriginal    int
	TokensAnalyzed    int
	Truncated         bool
	Confidence        float64
}

// Identity carries the agent/card/session triple a checkpoint is scoped to.
type Identity struct {
	AgentID   string
	CardID    string
	SessionID string
}

// Input bundles everything CheckIntegrity needs beyond the raw response text.
type Input struct {
	RawResponse        string
	Extraction         ExtractionMeta
	Identity           Identity
	WindowPosition     contracts.WindowPosition
	AnalysisModel      string
	AnalysisDurationMs int64
	LinkedTraceID      string
}

type rawConcern struct {
	Category                string  `json:"category"`
	Severity                 string  `json:"severity"`
	Description              string  `json:"description"`
	Evidence                 string  `json:"evidence"`
	RelevantCardField        *string `json:"relevant_card_field"`
	RelevantConscienceValue  *string `json:"relevant_conscience_value"`
}

type rawConscienceContext struct {
	ValuesChecked     []string `json:"values_checked"`
	Conflicts         []string `json:"conflicts"`
	Supports          []string `json:"supports"`
	Considerations    []string `json:"considerations"`
	ConsultationDepth string   `json:"consultation_depth"`
}

type rawResponse struct {
	Verdict           string                `json:"verdict"`
	Concerns          []rawConcern          `json:"concerns"`
	ReasoningSummary  string                `json:"reasoning_summary"`
	ConscienceContext rawConscienceContext  `json:"conscience_context"`
}

// CheckIntegrity is a pure parse-and-validate step from raw
// analysis model text to a fully formed IntegrityCheckpoint. It never calls a
// model and never mutates external state.
func CheckIntegrity(in Input) (contracts.IntegrityCheckpoint, error) {
	object, ok := extractJSONObject(in.RawResponse)
	if !ok {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("%w: no JSON object found in response", contracts.ErrInvalidAnalysisResponse)
	}

	var generic interface{}
	if err := json.Unmarshal([]byte(object), &generic); err != nil {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("%w: %v", contracts.ErrInvalidAnalysisResponse, err)
	}

	schema, err := responseSchema()
	if err != nil {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("verdict: schema unavailable: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("%w: %v", contracts.ErrInvalidAnalysisResponse, err)
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("%w: %v", contracts.ErrInvalidAnalysisResponse, err)
	}

	verdict := contracts.Verdict(raw.Verdict)
	if !verdict.Valid() {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("%w: %q", contracts.ErrInvalidVerdict, raw.Verdict)
	}

	concerns, err := convertConcerns(raw.Concerns)
	if err != nil {
		return contracts.IntegrityCheckpoint{}, err
	}
	if verdict == contracts.VerdictClear && len(concerns) > 0 {
		return contracts.IntegrityCheckpoint{}, fmt.Errorf("%w: %d concern(s) present on a clear verdict", contracts.ErrInvalidConcern, len(concerns))
	}

	consciousCtx, err := convertConscienceContext(raw.ConscienceContext)
	if err != nil {
		return contracts.IntegrityCheckpoint{}, err
	}

	checkpoint := contracts.IntegrityCheckpoint{
		CheckpointID:      "ic-" + uuid.NewString(),
		AgentID:           in.Identity.AgentID,
		CardID:            in.Identity.CardID,
		SessionID:         in.Identity.SessionID,
		Timestamp:         time.Now().UTC(),
		ThinkingBlockHash: in.Extraction.ThinkingBlockHash,
		Provider:          in.Extraction.Provider,
		Model:             in.Extraction.Model,
		Verdict:           verdict,
		Concerns:          concerns,
		ReasoningSummary:  raw.ReasoningSummary,
		ConscienceContext: consciousCtx,
		WindowPosition:    in.WindowPosition,
		AnalysisMetadata: contracts.AnalysisMetadata{
			AnalysisModel:          in.AnalysisModel,
			AnalysisDurationMs:     in.AnalysisDurationMs,
			ThinkingTokensOriginal: in.Extraction.TokensOriginal,
			ThinkingTokensAnalyzed: in.Extraction.TokensAnalyzed,
			Truncated:              in.Extraction.Truncated,
			ExtractionConfidence:   in.Extraction.Confidence,
		},
		LinkedTraceID: in.LinkedTraceID,
	}

	return checkpoint, nil
}

func convertConcerns(raw []rawConcern) ([]contracts.IntegrityConcern, error) {
	out := make([]contracts.IntegrityConcern, 0, len(raw))
	for _, rc := range raw {
		category := contracts.ConcernCategory(rc.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: category %q", contracts.ErrInvalidConcern, rc.Category)
		}
		severity := contracts.Severity(rc.Severity)
		if !severity.Valid() {
			return nil, fmt.Errorf("%w: severity %q", contracts.ErrInvalidConcern, rc.Severity)
		}
		concern := contracts.IntegrityConcern{
			Category:                category,
			Severity:                severity,
			Description:             rc.Description,
			Evidence:                rc.Evidence,
			RelevantCardField:       rc.RelevantCardField,
			RelevantConscienceValue: rc.RelevantConscienceValue,
		}
		concern.ClipEvidence()
		out = append(out, concern)
	}
	return out, nil
}

func convertConscienceContext(raw rawConscienceContext) (contracts.ConscienceContext, error) {
	depth := contracts.ConsultationDepth(raw.ConsultationDepth)
	if !depth.Valid() {
		return contracts.ConscienceContext{}, fmt.Errorf("%w: consultation_depth %q", contracts.ErrInvalidConscienceContext, raw.ConsultationDepth)
	}
	return contracts.ConscienceContext{
		ValuesChecked:     nonNilStrings(raw.ValuesChecked),
		Conflicts:         nonNilStrings(raw.Conflicts),
		Supports:          nonNilStrings(raw.Supports),
		Considerations:    nonNilStrings(raw.Considerations),
		ConsultationDepth: depth,
	}, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
