package contracts

// MinWindowSize is the floor on WindowConfig.MaxSize; construction below this
// is rejected with ErrConfigInvalid.
const MinWindowSize = 3

// WindowMode selects eviction behavior once the window is full.
type WindowMode string

const (
	WindowModeSliding WindowMode = "sliding"
	WindowModeFixed   WindowMode = "fixed"
)

// SessionBoundary selects what happens when a pushed checkpoint's SessionID
// differs from the window's current session.
type SessionBoundary string

const (
	SessionBoundaryReset SessionBoundary = "reset"
	SessionBoundaryCarry SessionBoundary = "carry"
)

// WindowConfig configures a window.Manager.
type WindowConfig struct {
	MaxSize         int             `json:"max_size" yaml:"max_size"`
	Mode            WindowMode      `json:"mode" yaml:"mode"`
	SessionBoundary SessionBoundary `json:"session_boundary" yaml:"session_boundary"`
	MaxAgeSeconds   int64           `json:"max_age_seconds" yaml:"max_age_seconds"`
}

// DefaultWindowConfig returns the default configuration: a sliding window
// of 10 checkpoints that resets on session boundaries and evicts nothing by
// age (MaxAgeSeconds == 0 disables age eviction).
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		MaxSize:         10,
		Mode:            WindowModeSliding,
		SessionBoundary: SessionBoundaryReset,
		MaxAgeSeconds:   0,
	}
}

// WindowState is the mutable, bounded sequence of checkpoints for one session.
type WindowState struct {
	SessionID     string                `json:"session_id"`
	Checkpoints   []IntegrityCheckpoint `json:"checkpoints"`
	TotalChecks   uint64                `json:"total_checks"`
	ClearCount    uint64                `json:"clear_count"`
	ReviewCount   uint64                `json:"review_count"`
	ViolationCount uint64               `json:"violation_count"`
	AvgAnalysisMs float64               `json:"avg_analysis_ms"`
}

// VerdictCounts tallies the three verdict kinds.
type VerdictCounts struct {
	Clear             int `json:"clear"`
	ReviewNeeded       int `json:"review_needed"`
	BoundaryViolation  int `json:"boundary_violation"`
}

// WindowSummary is the read-only, derived view of a WindowState suitable for
// inclusion in a signal or a prompt.
type WindowSummary struct {
	Size             int           `json:"size"`
	MaxSize          int           `json:"max_size"`
	Verdicts         VerdictCounts `json:"verdicts"`
	IntegrityRatio   float64       `json:"integrity_ratio"`
	DriftAlertActive bool          `json:"drift_alert_active"`
}
