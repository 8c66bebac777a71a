// Package window tracks a bounded, per-session rolling sequence of integrity
// checkpoints: eviction by size or age, verdict tallies, and the human
// readable context block prompt assembly folds into the next analysis call.
package window

import (
	"fmt"
	"sync"
	"time"

	"github.com/mnemom/aip/pkg/contracts"
)

// Manager is a mutex-protected WindowState plus its eviction and tallying
// logic. It is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	config contracts.WindowConfig
	state  contracts.WindowState
}

// New constructs a Manager, rejecting a MaxSize below contracts.MinWindowSize.
func New(config contracts.WindowConfig) (*Manager, error) {
	if config.MaxSize < contracts.MinWindowSize {
		return nil, fmt.Errorf("%w: max_size %d below minimum %d", contracts.ErrConfigInvalid, config.MaxSize, contracts.MinWindowSize)
	}
	return &Manager{config: config}, nil
}

// Push appends a checkpoint, applying the session-boundary rule first, then
// age eviction, then size eviction.
func (m *Manager) Push(checkpoint contracts.IntegrityCheckpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if checkpoint.SessionID != m.state.SessionID {
		if m.config.SessionBoundary == contracts.SessionBoundaryReset {
			m.resetLocked()
		}
		m.state.SessionID = checkpoint.SessionID
	}

	m.evictStaleLocked(time.Now())

	if len(m.state.Checkpoints) >= m.config.MaxSize {
		switch m.config.Mode {
		case contracts.WindowModeSliding:
			m.state.Checkpoints = m.state.Checkpoints[1:]
		case contracts.WindowModeFixed:
			m.state.Checkpoints = nil
		}
	}

	m.state.Checkpoints = append(m.state.Checkpoints, checkpoint)
	m.state.TotalChecks++

	m.recomputeLocked()
}

func (m *Manager) evictStaleLocked(now time.Time) {
	if m.config.MaxAgeSeconds <= 0 || len(m.state.Checkpoints) == 0 {
		return
	}
	maxAge := time.Duration(m.config.MaxAgeSeconds) * time.Second
	kept := m.state.Checkpoints[:0:0]
	for _, cp := range m.state.Checkpoints {
		if now.Sub(cp.Timestamp) <= maxAge {
			kept = append(kept, cp)
		}
	}
	m.state.Checkpoints = kept
}

func (m *Manager) recomputeLocked() {
	var clear, review, violation uint64
	var totalMs float64
	for _, cp := range m.state.Checkpoints {
		switch cp.Verdict {
		case contracts.VerdictClear:
			clear++
		case contracts.VerdictReviewNeeded:
			review++
		case contracts.VerdictBoundaryViolation:
			violation++
		}
		totalMs += float64(cp.AnalysisMetadata.AnalysisDurationMs)
	}
	m.state.ClearCount = clear
	m.state.ReviewCount = review
	m.state.ViolationCount = violation
	if n := len(m.state.Checkpoints); n > 0 {
		m.state.AvgAnalysisMs = totalMs / float64(n)
	} else {
		m.state.AvgAnalysisMs = 0
	}
}

// Reset clears the sequence and zeroes every counter, including TotalChecks:
// a reset denotes a logical break, so cumulative counters start over too.
// See DESIGN.md for the rationale.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Manager) resetLocked() {
	m.state = contracts.WindowState{SessionID: m.state.SessionID}
}

// Contents returns a copy of the current checkpoint sequence, oldest first.
func (m *Manager) Contents() []contracts.IntegrityCheckpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]contracts.IntegrityCheckpoint, len(m.state.Checkpoints))
	copy(out, m.state.Checkpoints)
	return out
}

// GetSummary returns the derived, read-only WindowSummary. DriftAlertActive
// is always false here; callers overlay the drift detector's own output.
func (m *Manager) GetSummary() contracts.WindowSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := len(m.state.Checkpoints)
	ratio := 1.0
	if size > 0 {
		ratio = float64(m.state.ClearCount) / float64(size)
	}

	return contracts.WindowSummary{
		Size:    size,
		MaxSize: m.config.MaxSize,
		Verdicts: contracts.VerdictCounts{
			Clear:             int(m.state.ClearCount),
			ReviewNeeded:      int(m.state.ReviewCount),
			BoundaryViolation: int(m.state.ViolationCount),
		},
		IntegrityRatio:   ratio,
		DriftAlertActive: false,
	}
}

// GetContext renders the same human-readable session-context prefix prompt
// assembly uses.
func (m *Manager) GetContext() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.state.Checkpoints) == 0 {
		return "SESSION CONTEXT: First check in session (no prior context)"
	}

	out := fmt.Sprintf("SESSION CONTEXT (window: %d/%d):", len(m.state.Checkpoints), m.config.MaxSize)
	for i, cp := range m.state.Checkpoints {
		out += fmt.Sprintf("\n%d. [%s] %s", i+1, cp.Verdict, cp.ReasoningSummary)
	}
	return out
}
