//go:build property
// +build property

package window_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/mnemom/aip/pkg/contracts"
	"github.com/mnemom/aip/pkg/window"
)

func verdictFromIndex(i int) contracts.Verdict {
	switch i % 3 {
	case 0:
		return contracts.VerdictClear
	case 1:
		return contracts.VerdictReviewNeeded
	default:
		return contracts.VerdictBoundaryViolation
	}
}

// TestWindowNeverExceedsMaxSize verifies the checkpoint sequence never grows
// past its configured bound, regardless of how many checkpoints are pushed.
func TestWindowNeverExceedsMaxSize(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("window size is always bounded by max_size", prop.ForAll(
		func(maxSize int, pushCount int, verdictSeed []int) bool {
			m, err := window.New(contracts.WindowConfig{
				MaxSize: maxSize,
				Mode:    contracts.WindowModeSliding,
			})
			if err != nil {
				return true
			}
			for i := 0; i < pushCount; i++ {
				seed := 0
				if len(verdictSeed) > 0 {
					seed = verdictSeed[i%len(verdictSeed)]
				}
				m.Push(contracts.IntegrityCheckpoint{
					CheckpointID: "cp",
					SessionID:    "s1",
					Timestamp:    time.Now(),
					Verdict:      verdictFromIndex(seed),
				})
			}
			return len(m.Contents()) <= maxSize
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 200),
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}

// TestWindowResetZeroesSummary verifies Reset always yields an empty summary
// with a 1.0 integrity ratio, regardless of prior state.
func TestWindowResetZeroesSummary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("reset always zeroes the window", prop.ForAll(
		func(pushCount int) bool {
			m, err := window.New(contracts.DefaultWindowConfig())
			if err != nil {
				return false
			}
			for i := 0; i < pushCount; i++ {
				m.Push(contracts.IntegrityCheckpoint{
					CheckpointID: "cp",
					SessionID:    "s1",
					Timestamp:    time.Now(),
					Verdict:      verdictFromIndex(i),
				})
			}
			m.Reset()
			summary := m.GetSummary()
			return summary.Size == 0 && summary.IntegrityRatio == 1.0
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

// TestWindowSessionBoundaryResetsOnNewSession verifies that pushing a
// checkpoint from a new session ID, under reset boundary mode, always
// starts from an empty window before the new checkpoint lands.
func TestWindowSessionBoundaryResetsOnNewSession(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("a new session always resets a reset-boundary window", prop.ForAll(
		func(firstCount int) bool {
			m, err := window.New(contracts.WindowConfig{
				MaxSize:         10,
				Mode:            contracts.WindowModeSliding,
				SessionBoundary: contracts.SessionBoundaryReset,
			})
			if err != nil {
				return false
			}
			for i := 0; i < firstCount; i++ {
				m.Push(contracts.IntegrityCheckpoint{CheckpointID: "cp", SessionID: "s1", Timestamp: time.Now(), Verdict: contracts.VerdictClear})
			}
			m.Push(contracts.IntegrityCheckpoint{CheckpointID: "cp2", SessionID: "s2", Timestamp: time.Now(), Verdict: contracts.VerdictClear})
			return len(m.Contents()) == 1
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
