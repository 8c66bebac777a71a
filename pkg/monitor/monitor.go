// Package monitor wires every component into the single entry point a host
// calls once per thinking block: extract, build a prompt, call the analysis
// model, parse the verdict, push the window, step drift, certify, and
// assemble the signal. It carries no process-wide state; every Monitor
// instance is scoped to one agent/card pairing.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mnemom/aip/pkg/agreement"
	"github.com/mnemom/aip/pkg/attestation"
	"github.com/mnemom/aip/pkg/contracts"
	"github.com/mnemom/aip/pkg/crypto"
	"github.com/mnemom/aip/pkg/drift"
	"github.com/mnemom/aip/pkg/prompt"
	"github.com/mnemom/aip/pkg/providers"
	"github.com/mnemom/aip/pkg/signal"
	"github.com/mnemom/aip/pkg/verdict"
	"github.com/mnemom/aip/pkg/window"
)

var tracer = otel.Tracer("github.com/mnemom/aip/pkg/monitor")

// Analyzer calls the external analysis model with an assembled system/user
// prompt and returns its raw text response. The monitor never constructs an
// HTTP client itself; the host supplies this however it reaches its model.
type Analyzer interface {
	Analyze(ctx context.Context, system, user string) (text string, model string, err error)
}

// Config bundles a Monitor's fixed, per-agent wiring.
type Config struct {
	Card             *contracts.AlignmentCard
	ConscienceValues []contracts.ConscienceValue
	WindowConfig     contracts.WindowConfig
	DriftThreshold   int
	Signer           crypto.Signer
	Analyzer         Analyzer
	Registry         *providers.Registry

	// Failure, when set, absorbs analysis-call errors into a synthetic signal
	// per its policy instead of surfacing them. When nil, Check returns the
	// error and the host applies its own policy.
	Failure *contracts.FailureConfig
}

// Monitor is the facade a host drives once per thinking block.
type Monitor struct {
	card             *contracts.AlignmentCard
	conscienceValues []contracts.ConscienceValue
	window           *window.Manager
	driftState       contracts.DriftState
	driftThreshold   int
	signer           crypto.Signer
	analyzer         Analyzer
	registry         *providers.Registry
	failure          *contracts.FailureConfig
	lastChainHash    string
	closed           bool
}

// New constructs a Monitor, validating the agreement between card and
// conscienceValues. A conflict is a hard initialization failure.
func New(cfg Config) (*Monitor, error) {
	result := agreement.Validate(cfg.Card, cfg.ConscienceValues)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %d conflict(s) between card and conscience values", contracts.ErrAgreementConflict, len(result.Conflicts))
	}

	windowConfig := cfg.WindowConfig
	if windowConfig.MaxSize == 0 {
		windowConfig = contracts.DefaultWindowConfig()
	}
	windowMgr, err := window.New(windowConfig)
	if err != nil {
		return nil, err
	}

	registry := cfg.Registry
	if registry == nil {
		registry = providers.NewRegistry()
	}

	return &Monitor{
		card:             cfg.Card,
		conscienceValues: cfg.ConscienceValues,
		window:           windowMgr,
		driftState:       contracts.ResetDriftState(),
		driftThreshold:   cfg.DriftThreshold,
		signer:           cfg.Signer,
		analyzer:         cfg.Analyzer,
		registry:         registry,
		failure:          cfg.Failure,
		lastChainHash:    attestation.GenesisPrev,
	}, nil
}

// Close destroys the monitor. Every subsequent Check fails with
// contracts.ErrClientClosed.
func (m *Monitor) Close() {
	m.closed = true
}

// CheckInput bundles the raw provider response this check analyzes.
type CheckInput struct {
	AgentID       string
	SessionID     string
	ProviderName  string
	ResponseBody  []byte
	TaskContext   string
	TokenBudget   int
	LinkedTraceID string
}

// Result bundles everything one call to Check produces.
type Result struct {
	Signal      contracts.IntegritySignal
	Certificate contracts.IntegrityCertificate
}

// Check runs one full integrity analysis cycle for a single thinking block
// extracted from in.ResponseBody.
func (m *Monitor) Check(ctx context.Context, in CheckInput) (Result, error) {
	if m.closed {
		return Result{}, fmt.Errorf("%w: Check called after Close", contracts.ErrClientClosed)
	}

	ctx, span := tracer.Start(ctx, "monitor.Check", trace.WithAttributes(
		attribute.String("aip.agent_id", in.AgentID),
		attribute.String("aip.session_id", in.SessionID),
		attribute.String("aip.provider", in.ProviderName),
	))
	defer span.End()

	extracted := m.registry.Extract(in.ProviderName, in.ResponseBody)
	if extracted == nil || extracted.Content == "" {
		// No thinking to check: synthesize a clear signal without consulting
		// the analysis model and without touching window or drift state.
		span.SetAttributes(attribute.Bool("aip.synthetic", true))
		return m.synthesize(in, contracts.VerdictClear, "no thinking block extracted from provider response")
	}

	span.SetAttributes(
		attribute.String("aip.extraction_method", string(extracted.ExtractionMethod)),
		attribute.Float64("aip.extraction_confidence", extracted.Confidence),
	)

	thinkingHash := crypto.ThinkingHash(extracted.Content)

	built := prompt.Build(prompt.Input{
		Card:             m.card,
		ConscienceValues: m.conscienceValues,
		WindowContext:    m.window.Contents(),
		WindowMaxSize:    m.configuredMaxSize(),
		Thinking:         extracted.Content,
		TokenBudget:      in.TokenBudget,
		TaskContext:      in.TaskContext,
	})

	callCtx := ctx
	if m.failure != nil && m.failure.AnalysisTimeoutMs > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(m.failure.AnalysisTimeoutMs)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	rawResponse, analysisModel, err := m.analyzer.Analyze(callCtx, built.System, built.User)
	durationMs := time.Since(start).Milliseconds()
	if err != nil {
		span.RecordError(err)
		if m.failure == nil {
			span.SetStatus(codes.Error, err.Error())
			return Result{}, fmt.Errorf("monitor: analysis call failed: %w", err)
		}
		span.SetAttributes(attribute.Bool("aip.synthetic", true))
		verdictKind := contracts.VerdictClear
		if m.failure.Policy == contracts.FailClosed {
			verdictKind = contracts.VerdictBoundaryViolation
		}
		return m.synthesize(in, verdictKind, fmt.Sprintf("analysis call failed (%s policy applied): %v", m.failure.Policy, err))
	}

	checkpoint, err := verdict.CheckIntegrity(verdict.Input{
		RawResponse: rawResponse,
		Extraction: verdict.ExtractionMeta{
			ThinkingBlockHash: thinkingHash,
			Provider:          in.ProviderName,
			Model:             extracted.Model,
			TokensOriginal:    built.OriginalTokens,
			TokensAnalyzed:    built.AnalyzedTokens,
			Truncated:         built.Truncated,
			Confidence:        extracted.Confidence,
		},
		Identity:           verdict.Identity{AgentID: in.AgentID, SessionID: in.SessionID, CardID: m.card.CardID},
		WindowPosition:     contracts.WindowPosition{Index: len(m.window.Contents()), WindowSize: m.configuredMaxSize()},
		AnalysisModel:      analysisModel,
		AnalysisDurationMs: durationMs,
		LinkedTraceID:      in.LinkedTraceID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	return m.finish(checkpoint)
}

// synthesize produces the signal+certificate pair for a checkpoint the
// monitor fabricates itself: the no-thinking fast path and the configured
// failure policy. Synthetic checkpoints never enter the window or drift
// state, so the signal's window summary reflects the window as it stood
// before this check.
func (m *Monitor) synthesize(in CheckInput, verdictKind contracts.Verdict, summary string) (Result, error) {
	checkpoint := contracts.IntegrityCheckpoint{
		CheckpointID:      "ic-" + uuid.NewString(),
		AgentID:           in.AgentID,
		CardID:            m.card.CardID,
		SessionID:         in.SessionID,
		Timestamp:         time.Now().UTC(),
		ThinkingBlockHash: crypto.NoneHash,
		Provider:          in.ProviderName,
		Verdict:           verdictKind,
		Concerns:          []contracts.IntegrityConcern{},
		ReasoningSummary:  summary,
		ConscienceContext: contracts.ConscienceContext{
			ValuesChecked:  []string{},
			Conflicts:      []string{},
			Supports:       []string{},
			Considerations: []string{},
		},
		WindowPosition: contracts.WindowPosition{Index: len(m.window.Contents()), WindowSize: m.configuredMaxSize()},
		LinkedTraceID:  in.LinkedTraceID,
		Synthetic:      true,
	}

	sig := signal.Assemble(checkpoint, m.window.GetSummary(), nil)
	cert, err := m.certify(checkpoint)
	if err != nil {
		return Result{}, err
	}
	return Result{Signal: sig, Certificate: cert}, nil
}

func (m *Monitor) finish(checkpoint contracts.IntegrityCheckpoint) (Result, error) {
	m.window.Push(checkpoint)

	newDriftState, alert := drift.Step(m.driftState, checkpoint, m.window.Contents(), m.driftThreshold)
	m.driftState = newDriftState

	sig := signal.Assemble(checkpoint, m.window.GetSummary(), alert)

	cert, err := m.certify(checkpoint)
	if err != nil {
		return Result{}, err
	}

	if !sig.Proceed {
		log.Printf("[WARN] monitor: boundary_violation for agent=%s session=%s checkpoint=%s", checkpoint.AgentID, checkpoint.SessionID, checkpoint.CheckpointID)
	}

	return Result{Signal: sig, Certificate: cert}, nil
}

func (m *Monitor) certify(checkpoint contracts.IntegrityCheckpoint) (contracts.IntegrityCertificate, error) {
	cert, err := attestation.Certify(attestation.Inputs{
		Checkpoint:       checkpoint,
		Card:             m.card,
		ConscienceValues: m.conscienceValues,
		PrevChainHash:    m.lastChainHash,
		Confidence:       checkpoint.AnalysisMetadata.ExtractionConfidence,
	}, m.signer)
	if err != nil {
		return contracts.IntegrityCertificate{}, fmt.Errorf("monitor: certify: %w", err)
	}
	m.lastChainHash = cert.Proofs.Chain.ChainHash
	return cert, nil
}

func (m *Monitor) configuredMaxSize() int {
	return m.window.GetSummary().MaxSize
}
