package contracts

// RecommendedAction is the host-facing instruction derived from a verdict.
type RecommendedAction string

const (
	ActionContinue        RecommendedAction = "continue"
	ActionLogAndContinue  RecommendedAction = "log_and_continue"
	ActionDenyAndEscalate RecommendedAction = "deny_and_escalate"
	ActionPauseForReview  RecommendedAction = "pause_for_review"
)

// IntegritySignal is emitted once per check and tells the host whether the
// agent should proceed.
type IntegritySignal struct {
	Checkpoint        IntegrityCheckpoint `json:"checkpoint"`
	Proceed           bool                `json:"proceed"`
	RecommendedAction RecommendedAction   `json:"recommended_action"`
	WindowSummary     WindowSummary       `json:"window_summary"`
	DriftAlert        *IntegrityDriftAlert `json:"drift_alert,omitempty"`
}
