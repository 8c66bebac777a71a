package contracts

// ExtractionMethod names the strategy that recovered a thinking block.
type ExtractionMethod string

const (
	ExtractionNativeThinking   ExtractionMethod = "native_thinking"
	ExtractionReasoningContent ExtractionMethod = "reasoning_content"
	ExtractionResponseAnalysis ExtractionMethod = "response_analysis"
)

// Confidence is fixed per extraction path, never computed ad hoc.
const (
	ConfidenceNative    = 1.0
	ConfidenceExplicit  = 0.9
	ConfidenceHeuristic = 0.3
)

// ExtractedThinking is what a provider adapter recovers from a raw payload.
type ExtractedThinking struct {
	Content          string           `json:"content"`
	Provider         string           `json:"provider"`
	Model            string           `json:"model"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	Confidence       float64          `json:"confidence"`
	Truncated        bool             `json:"truncated"`
}
