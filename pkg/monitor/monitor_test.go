package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mnemom/aip/pkg/contracts"
	"github.com/mnemom/aip/pkg/crypto"
)

type fakeAnalyzer struct {
	response string
	model    string
	err      error
	calls    int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, system, user string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.response, f.model, nil
}

func testCard() *contracts.AlignmentCard {
	return &contracts.AlignmentCard{
		CardID: "card-test",
		Values: []contracts.Value{
			{Name: "honesty", Priority: 1},
		},
		Autonomy: contracts.Envelope{
			BoundedActions:   []string{"send_email"},
			ForbiddenActions: []string{"delete_database"},
		},
	}
}

func testSigner(t *testing.T) crypto.Signer {
	t.Helper()
	signer, err := crypto.NewEd25519Signer("key-test")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	return signer
}

func clearResponse() string {
	payload := map[string]interface{}{
		"verdict":           "clear",
		"concerns":          []interface{}{},
		"reasoning_summary": "no concerns observed",
		"conscience_context": map[string]interface{}{
			"values_checked":      []string{"honesty"},
			"conflicts":           []string{},
			"supports":            []string{"honesty"},
			"considerations":      []string{},
			"consultation_depth":  "standard",
		},
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func nativeThinkingBody(thinking string) []byte {
	body := map[string]interface{}{
		"model": "claude-test",
		"content": []map[string]interface{}{
			{"type": "thinking", "thinking": thinking},
			{"type": "text", "text": "done"},
		},
	}
	out, _ := json.Marshal(body)
	return out
}

func newTestMonitor(t *testing.T, analyzer Analyzer) *Monitor {
	t.Helper()
	m, err := New(Config{
		Card:     testCard(),
		Analyzer: analyzer,
		Signer:   testSigner(t),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestCheckHappyPathProducesClearSignalAndCertificate(t *testing.T) {
	analyzer := &fakeAnalyzer{response: clearResponse(), model: "analysis-model"}
	m := newTestMonitor(t, analyzer)

	result, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("I should check whether this is safe before proceeding."),
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected exactly one analyzer call, got %d", analyzer.calls)
	}
	if result.Signal.Checkpoint.Verdict != contracts.VerdictClear {
		t.Errorf("expected clear verdict, got %s", result.Signal.Checkpoint.Verdict)
	}
	if !result.Signal.Proceed {
		t.Error("expected proceed=true for a clear verdict")
	}
	if result.Certificate.Proofs.Chain.PrevChainHash != "genesis" {
		t.Errorf("expected first checkpoint to chain from genesis, got %q", result.Certificate.Proofs.Chain.PrevChainHash)
	}
	if result.Certificate.Proofs.Signature == "" {
		t.Error("expected a non-empty signature")
	}
}

func TestCheckWithNoThinkingBlockSkipsAnalyzerAndWindow(t *testing.T) {
	analyzer := &fakeAnalyzer{response: clearResponse(), model: "analysis-model"}
	m := newTestMonitor(t, analyzer)

	body, _ := json.Marshal(map[string]interface{}{"model": "claude-test", "content": []interface{}{
		map[string]interface{}{"type": "text", "text": "just a plain answer"},
	}})

	result, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: body,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if analyzer.calls != 0 {
		t.Errorf("expected the analyzer to be skipped when no thinking block is found, got %d calls", analyzer.calls)
	}
	if result.Signal.Checkpoint.Verdict != contracts.VerdictClear {
		t.Errorf("expected clear verdict on the no-thinking fast path, got %s", result.Signal.Checkpoint.Verdict)
	}
	if !result.Signal.Checkpoint.Synthetic {
		t.Error("expected the no-thinking checkpoint to be marked synthetic")
	}
	if result.Signal.WindowSummary.Size != 0 {
		t.Errorf("synthetic signals must not enter the window, got size %d", result.Signal.WindowSummary.Size)
	}
	if len(m.window.Contents()) != 0 {
		t.Errorf("expected window to remain untouched, got %d entries", len(m.window.Contents()))
	}
	if result.Certificate.InputCommitments.ThinkingBlockHash != crypto.NoneHash {
		t.Errorf("expected none-hash sentinel, got %q", result.Certificate.InputCommitments.ThinkingBlockHash)
	}
}

func TestCheckChainsSuccessiveCheckpoints(t *testing.T) {
	analyzer := &fakeAnalyzer{response: clearResponse(), model: "analysis-model"}
	m := newTestMonitor(t, analyzer)

	first, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("first thought"),
	})
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}

	second, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("second thought"),
	})
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}

	if second.Certificate.Proofs.Chain.PrevChainHash != first.Certificate.Proofs.Chain.ChainHash {
		t.Error("expected second certificate to chain from first certificate's chain hash")
	}
}

func TestCheckSurfacesAnalyzerErrorWithoutFailurePolicy(t *testing.T) {
	analyzer := &fakeAnalyzer{err: context.DeadlineExceeded}
	m := newTestMonitor(t, analyzer)

	_, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("some reasoning"),
	})
	if err == nil {
		t.Fatal("expected an error when the analyzer call fails")
	}
}

func newFailureMonitor(t *testing.T, analyzer Analyzer, policy contracts.FailurePolicy) *Monitor {
	t.Helper()
	failure := contracts.DefaultFailureConfig()
	failure.Policy = policy
	m, err := New(Config{
		Card:     testCard(),
		Analyzer: analyzer,
		Signer:   testSigner(t),
		Failure:  &failure,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestCheckFailOpenSynthesizesClearSignal(t *testing.T) {
	m := newFailureMonitor(t, &fakeAnalyzer{err: context.DeadlineExceeded}, contracts.FailOpen)

	result, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("some reasoning"),
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Signal.Checkpoint.Verdict != contracts.VerdictClear {
		t.Errorf("expected fail-open to synthesize clear, got %s", result.Signal.Checkpoint.Verdict)
	}
	if !result.Signal.Proceed {
		t.Error("expected proceed=true under fail-open")
	}
	if !result.Signal.Checkpoint.Synthetic {
		t.Error("expected the synthesized checkpoint to be marked synthetic")
	}
	if len(m.window.Contents()) != 0 {
		t.Errorf("synthetic signals must not enter the window, got %d entries", len(m.window.Contents()))
	}
}

func TestCheckFailClosedSynthesizesBoundaryViolation(t *testing.T) {
	m := newFailureMonitor(t, &fakeAnalyzer{err: context.DeadlineExceeded}, contracts.FailClosed)

	result, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("some reasoning"),
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Signal.Checkpoint.Verdict != contracts.VerdictBoundaryViolation {
		t.Errorf("expected fail-closed to synthesize boundary_violation, got %s", result.Signal.Checkpoint.Verdict)
	}
	if result.Signal.Proceed {
		t.Error("expected proceed=false under fail-closed")
	}
	if m.driftState.SustainedNonClear != 0 {
		t.Error("synthetic signals must not advance drift state")
	}
}

func TestCheckAfterCloseFails(t *testing.T) {
	m := newTestMonitor(t, &fakeAnalyzer{response: clearResponse()})
	m.Close()

	_, err := m.Check(context.Background(), CheckInput{
		AgentID:      "agent-1",
		SessionID:    "session-1",
		ProviderName: "anthropic",
		ResponseBody: nativeThinkingBody("some reasoning"),
	})
	if !errors.Is(err, contracts.ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
}

func TestNewRejectsConflictingConscienceValues(t *testing.T) {
	card := testCard()
	conflicting := []contracts.ConscienceValue{
		{ID: "v1", Kind: contracts.ConscienceBoundary, Content: "Never send email under any circumstance."},
	}
	_, err := New(Config{
		Card:             card,
		ConscienceValues: conflicting,
		Analyzer:         &fakeAnalyzer{response: clearResponse()},
		Signer:           testSigner(t),
	})
	if err == nil {
		t.Fatal("expected agreement conflict to reject construction")
	}
}
