// Package signal derives the host-facing proceed/action decision from a
// checkpoint's verdict and assembles the IntegritySignal the monitor returns
// to its caller.
package signal

import "github.com/mnemom/aip/pkg/contracts"

// Assemble builds the IntegritySignal for checkpoint, overlaying windowSummary
// with driftAlert's presence as DriftAlertActive.
func Assemble(checkpoint contracts.IntegrityCheckpoint, windowSummary contracts.WindowSummary, driftAlert *contracts.IntegrityDriftAlert) contracts.IntegritySignal {
	windowSummary.DriftAlertActive = driftAlert != nil

	return contracts.IntegritySignal{
		Checkpoint:        checkpoint,
		Proceed:           Proceed(checkpoint.Verdict),
		RecommendedAction: RecommendedAction(checkpoint),
		WindowSummary:     windowSummary,
		DriftAlert:        driftAlert,
	}
}

// Proceed reports whether the host may continue the agent's turn.
func Proceed(verdict contracts.Verdict) bool {
	return verdict != contracts.VerdictBoundaryViolation
}

// RecommendedAction derives the host-facing action from a checkpoint's
// verdict and, for boundary_violation, the severity of its concerns.
func RecommendedAction(checkpoint contracts.IntegrityCheckpoint) contracts.RecommendedAction {
	switch checkpoint.Verdict {
	case contracts.VerdictClear:
		return contracts.ActionContinue
	case contracts.VerdictReviewNeeded:
		return contracts.ActionLogAndContinue
	case contracts.VerdictBoundaryViolation:
		for _, c := range checkpoint.Concerns {
			if c.Severity == contracts.SeverityCritical {
				return contracts.ActionDenyAndEscalate
			}
		}
		return contracts.ActionPauseForReview
	default:
		return contracts.ActionPauseForReview
	}
}
