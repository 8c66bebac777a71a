// Package drift implements the sustained-non-clear streak detector: a pure
// step function over DriftState plus the current window contents, producing
// at most one alert per streak.
package drift

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemom/aip/pkg/contracts"
)

// DefaultThreshold is used when the caller passes Step a threshold below
// contracts.DriftThresholdMin (including zero).
const DefaultThreshold = contracts.DriftThresholdMin

var directionByCategory = map[contracts.ConcernCategory]contracts.DriftDirection{
	contracts.CategoryPromptInjection:    contracts.DirectionInjectionPattern,
	contracts.CategoryValueMisalignment:  contracts.DirectionValueErosion,
	contracts.CategoryAutonomyViolation:  contracts.DirectionAutonomyCreep,
	contracts.CategoryDeceptiveReasoning: contracts.DirectionDeceptionPattern,
}

// Step advances state by one checkpoint, returning the new state and an
// alert if this checkpoint pushed a sustained streak over threshold for the
// first time since the last reset.
func Step(state contracts.DriftState, checkpoint contracts.IntegrityCheckpoint, windowContents []contracts.IntegrityCheckpoint, threshold int) (contracts.DriftState, *contracts.IntegrityDriftAlert) {
	if threshold < contracts.DriftThresholdMin {
		threshold = DefaultThreshold
	}

	if checkpoint.Verdict == contracts.VerdictClear {
		return contracts.ResetDriftState(), nil
	}

	next := contracts.DriftState{
		SustainedNonClear: state.SustainedNonClear + 1,
		AlertFired:        state.AlertFired,
		StreakCheckpoints: append(append([]string{}, state.StreakCheckpoints...), checkpoint.CheckpointID),
		StreakCategories:  append([]contracts.ConcernCategory{}, state.StreakCategories...),
	}
	for _, concern := range checkpoint.Concerns {
		next.StreakCategories = append(next.StreakCategories, concern.Category)
	}

	if int(next.SustainedNonClear) < threshold || next.AlertFired {
		return next, nil
	}

	similarity := integritySimilarity(windowContents)
	severity := severityFor(similarity)
	direction := dominantDirection(next.StreakCategories)

	alert := &contracts.IntegrityDriftAlert{
		AlertID:             "ida-" + uuid.NewString(),
		AgentID:              checkpoint.AgentID,
		SessionID:            checkpoint.SessionID,
		CheckpointIDs:        append([]string{}, next.StreakCheckpoints...),
		IntegritySimilarity:  similarity,
		SustainedChecks:      int(next.SustainedNonClear),
		AlertType:            "informative",
		Severity:             severity,
		DriftDirection:       direction,
		Message:              fmt.Sprintf("%d consecutive integrity concerns detected. Dominant pattern: %s. Integrity ratio: %.0f%%.", next.SustainedNonClear, direction, similarity*100),
		DetectionTimestamp:   time.Now().UTC(),
	}

	next.AlertFired = true
	return next, alert
}

func integritySimilarity(windowContents []contracts.IntegrityCheckpoint) float64 {
	if len(windowContents) == 0 {
		return 0
	}
	clear := 0
	for _, cp := range windowContents {
		if cp.Verdict == contracts.VerdictClear {
			clear++
		}
	}
	return float64(clear) / float64(len(windowContents))
}

func severityFor(similarity float64) contracts.DriftSeverity {
	switch {
	case similarity >= 0.7:
		return contracts.DriftSeverityLow
	case similarity >= 0.4:
		return contracts.DriftSeverityMedium
	default:
		return contracts.DriftSeverityHigh
	}
}

// dominantDirection maps the strict-majority concern category (> 50% of the
// streak) to its drift direction, or DirectionUnknown if none holds a
// majority.
func dominantDirection(categories []contracts.ConcernCategory) contracts.DriftDirection {
	if len(categories) == 0 {
		return contracts.DirectionUnknown
	}
	counts := make(map[contracts.ConcernCategory]int, len(categories))
	for _, c := range categories {
		counts[c]++
	}
	for category, n := range counts {
		if float64(n) > float64(len(categories))*0.5 {
			if direction, ok := directionByCategory[category]; ok {
				return direction
			}
			return contracts.DirectionUnknown
		}
	}
	return contracts.DirectionUnknown
}
