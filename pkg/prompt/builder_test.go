package prompt

import (
	"strings"
	"testing"

	"github.com/mnemom/aip/pkg/contracts"
)

func sampleCard() *contracts.AlignmentCard {
	return &contracts.AlignmentCard{
		CardID: "card-1",
		Values: []contracts.Value{{Name: "honesty", Priority: 1}},
	}
}

func TestBuildOmitsConscienceSectionWhenEmpty(t *testing.T) {
	out := Build(Input{Card: sampleCard(), Thinking: "short thought"})
	if strings.Contains(out.User, "[DAIMONION]") {
		t.Errorf("expected no conscience section, got: %s", out.User)
	}
}

func TestBuildIncludesOnlyInjectableConscienceValues(t *testing.T) {
	values := []contracts.ConscienceValue{
		{Kind: contracts.ConscienceBoundary, Content: "never exfiltrate secrets"},
		{Kind: contracts.ConscienceFear, Content: "avoid runaway spend"},
		{Kind: contracts.ConscienceKind("aspiration"), Content: "be maximally helpful"},
	}
	out := Build(Input{Card: sampleCard(), ConscienceValues: values, Thinking: "t"})
	if !strings.Contains(out.User, "[DAIMONION]-<be aware of> [BOUNDARY] never exfiltrate secrets") {
		t.Errorf("missing boundary line: %s", out.User)
	}
	if !strings.Contains(out.User, "[FEAR] avoid runaway spend") {
		t.Errorf("missing fear line: %s", out.User)
	}
	if strings.Contains(out.User, "be maximally helpful") {
		t.Errorf("non-injectable value leaked into prompt: %s", out.User)
	}
}

func TestBuildFirstCheckInSessionHasNoPriorContext(t *testing.T) {
	out := Build(Input{Card: sampleCard(), Thinking: "t"})
	if !strings.Contains(out.User, "First check in session (no prior context)") {
		t.Errorf("expected no-prior-context marker: %s", out.User)
	}
}

func TestBuildWindowSectionListsPriorCheckpointsInOrder(t *testing.T) {
	window := []contracts.IntegrityCheckpoint{
		{Verdict: contracts.VerdictClear, ReasoningSummary: "first check clean"},
		{Verdict: contracts.VerdictReviewNeeded, ReasoningSummary: "slight concern raised"},
	}
	out := Build(Input{Card: sampleCard(), WindowContext: window, WindowMaxSize: 5, Thinking: "t"})
	if !strings.Contains(out.User, "SESSION CONTEXT (window: 2/5):") {
		t.Errorf("missing window header: %s", out.User)
	}
	if !strings.Contains(out.User, "1. [clear] first check clean") {
		t.Errorf("missing first checkpoint line: %s", out.User)
	}
	if !strings.Contains(out.User, "2. [review_needed] slight concern raised") {
		t.Errorf("missing second checkpoint line: %s", out.User)
	}
}

func TestBuildIncludesTaskContextWhenProvided(t *testing.T) {
	out := Build(Input{Card: sampleCard(), Thinking: "t", TaskContext: "refactor the billing module"})
	if !strings.Contains(out.User, "CURRENT TASK: refactor the billing module") {
		t.Errorf("missing task context: %s", out.User)
	}
}

func TestBuildOmitsTaskContextWhenBlank(t *testing.T) {
	out := Build(Input{Card: sampleCard(), Thinking: "t"})
	if strings.Contains(out.User, "CURRENT TASK") {
		t.Errorf("unexpected task context section: %s", out.User)
	}
}

func TestBuildTruncatesOversizedThinkingAndReportsCounts(t *testing.T) {
	thinking := strings.Repeat("A", 20000)
	out := Build(Input{Card: sampleCard(), Thinking: thinking})
	if !out.Truncated {
		t.Fatal("expected truncation for a 20000-char thinking block at default budget")
	}
	if out.OriginalTokens != 5000 {
		t.Errorf("expected original_tokens=5000, got %d", out.OriginalTokens)
	}
	if !strings.Contains(out.User, "[... 904 tokens omitted ...]") {
		t.Errorf("expected 904 omitted tokens marker, got user prompt: %s", out.User)
	}
}

func TestBuildSystemPromptCarriesMetaInjectionWarning(t *testing.T) {
	out := Build(Input{Card: sampleCard(), Thinking: "t"})
	if !strings.Contains(out.System, "META-INJECTION WARNING") {
		t.Errorf("system prompt missing meta-injection warning")
	}
	if !strings.Contains(out.System, "\"verdict\"") {
		t.Errorf("system prompt missing schema definition")
	}
}
