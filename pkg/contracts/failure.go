package contracts

// DefaultAnalysisTimeoutMs bounds the analysis model call when the caller
// supplies no explicit deadline.
const DefaultAnalysisTimeoutMs = 10_000

// FailurePolicy selects what gets synthesized when the analysis call times
// out or fails in transport: fail-open proceeds on a synthetic clear,
// fail-closed halts on a synthetic boundary_violation. Synthetic signals
// never enter the window or drift state.
type FailurePolicy string

const (
	FailOpen   FailurePolicy = "fail_open"
	FailClosed FailurePolicy = "fail_closed"
)

// Valid reports whether p is a declared policy.
func (p FailurePolicy) Valid() bool {
	return p == FailOpen || p == FailClosed
}

// FailureConfig configures how analysis-call failures are absorbed.
type FailureConfig struct {
	Policy            FailurePolicy `json:"policy" yaml:"policy"`
	AnalysisTimeoutMs int64         `json:"analysis_timeout_ms" yaml:"analysis_timeout_ms"`
}

// DefaultFailureConfig returns the default failure handling: fail-open with
// a 10 second analysis deadline.
func DefaultFailureConfig() FailureConfig {
	return FailureConfig{
		Policy:            FailOpen,
		AnalysisTimeoutMs: DefaultAnalysisTimeoutMs,
	}
}
