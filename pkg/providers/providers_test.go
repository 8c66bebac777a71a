package providers

import (
	"strings"
	"testing"

	"github.com/mnemom/aip/pkg/contracts"
)

func TestNativeThinkingAdapterBody(t *testing.T) {
	body := []byte(`{
		"model": "claude-opus-4",
		"content": [
			{"type": "thinking", "thinking": "Let me analyze this request carefully."},
			{"type": "text", "text": "Here is my answer."}
		]
	}`)

	a := NewNativeThinkingAdapter()
	got := a.ExtractFromBody(body)
	if got == nil {
		t.Fatal("expected extraction, got nil")
	}
	if got.Content != "Let me analyze this request carefully." {
		t.Errorf("unexpected content: %q", got.Content)
	}
	if got.Confidence != contracts.ConfidenceNative {
		t.Errorf("expected native confidence, got %v", got.Confidence)
	}
	if got.ExtractionMethod != contracts.ExtractionNativeThinking {
		t.Errorf("unexpected extraction method: %v", got.ExtractionMethod)
	}
}

func TestNativeThinkingAdapterNoThinking(t *testing.T) {
	body := []byte(`{"model": "claude-opus-4", "content": [{"type": "text", "text": "just an answer"}]}`)
	a := NewNativeThinkingAdapter()
	if got := a.ExtractFromBody(body); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestNativeThinkingAdapterEventStream(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"type":"content_block_start","index":0,"content_block":{"type":"thinking"}}`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"First, "}}`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"I consider the request."}}`,
		`data: {"type":"content_block_stop","index":0}`,
		`data: {"type":"content_block_start","index":1,"content_block":{"type":"text"}}`,
		`data: {"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"Answer."}}`,
		`data: [DONE]`,
	}, "\n")

	a := NewNativeThinkingAdapter()
	got := a.ExtractFromEventStream([]byte(stream))
	if got == nil {
		t.Fatal("expected extraction, got nil")
	}
	if got.Content != "First, I consider the request." {
		t.Errorf("unexpected content: %q", got.Content)
	}
}

func TestExplicitReasoningAdapter(t *testing.T) {
	body := []byte(`{
		"model": "o-reasoning-1",
		"choices": [{"message": {"content": "final answer", "reasoning_content": "stepping through the problem"}}]
	}`)
	a := NewExplicitReasoningAdapter()
	got := a.ExtractFromBody(body)
	if got == nil {
		t.Fatal("expected extraction, got nil")
	}
	if got.Content != "stepping through the problem" {
		t.Errorf("unexpected content: %q", got.Content)
	}
	if got.Confidence != contracts.ConfidenceExplicit {
		t.Errorf("expected explicit confidence, got %v", got.Confidence)
	}
}

func TestPartsWithFlagAdapter(t *testing.T) {
	body := []byte(`{
		"modelVersion": "gemini-3-pro",
		"candidates": [{"content": {"parts": [
			{"text": "internal deliberation", "thought": true},
			{"text": "visible answer", "thought": false}
		]}}]
	}`)
	a := NewPartsWithFlagAdapter()
	got := a.ExtractFromBody(body)
	if got == nil {
		t.Fatal("expected extraction, got nil")
	}
	if got.Content != "internal deliberation" {
		t.Errorf("unexpected content: %q", got.Content)
	}
}

func TestFallbackAdapterMatchesIndicators(t *testing.T) {
	body := []byte(`{"model": "unknown-model", "content": [{"type": "text", "text": "Let me analyze the situation. I should consider the risk. Here is the final answer."}]}`)
	a := NewFallbackAdapter()
	got := a.ExtractFromBody(body)
	if got == nil {
		t.Fatal("expected extraction, got nil")
	}
	if got.Confidence != contracts.ConfidenceHeuristic {
		t.Errorf("expected heuristic confidence, got %v", got.Confidence)
	}
	if !strings.Contains(got.Content, "Let me analyze") {
		t.Errorf("expected matched indicator sentence, got %q", got.Content)
	}
}

func TestFallbackAdapterNoMatch(t *testing.T) {
	body := []byte(`{"model": "unknown-model", "content": [{"type": "text", "text": "The weather is sunny today."}]}`)
	a := NewFallbackAdapter()
	if got := a.ExtractFromBody(body); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestRegistryDetectFromURL(t *testing.T) {
	r := NewRegistry()
	cases := map[string]string{
		"https://api.anthropic.com/v1/messages":                      ProviderAnthropic,
		"https://api.openai.com/v1/chat/completions":                 ProviderOpenAI,
		"https://generativelanguage.googleapis.com/v1/models:stream": ProviderGoogle,
		"https://example.com/unrelated":                              "",
	}
	for url, want := range cases {
		if got := r.DetectFromURL(url); got != want {
			t.Errorf("DetectFromURL(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestRegistryGetFallsBackToHeuristic(t *testing.T) {
	r := NewRegistry()
	a := r.Get("unknown-provider")
	if a.Provider() != ProviderFallback {
		t.Errorf("expected fallback adapter for unknown provider, got %s", a.Provider())
	}
}

func TestRegistryExtractFallsThroughToHeuristic(t *testing.T) {
	r := NewRegistry()
	body := []byte(`{"model": "x", "content": [{"type": "text", "text": "Let me think about this carefully before responding."}]}`)
	got := r.Extract(ProviderAnthropic, body)
	if got == nil {
		t.Fatal("expected heuristic fallback extraction, got nil")
	}
	if got.Provider != ProviderFallback {
		t.Errorf("expected fallback provider tag, got %s", got.Provider)
	}
}
