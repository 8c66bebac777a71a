package providers

import (
	"encoding/json"

	"github.com/mnemom/aip/pkg/contracts"
)

// ExplicitReasoningAdapter extracts from payloads that carry a dedicated
// reasoning text field parallel to the visible output, read verbatim. This
// matches the OpenAI-compatible chat-completions shape used by reasoning
// models that expose a `reasoning_content` field alongside `content`:
//
//	{"model": "...", "choices": [{"message": {"content": "...", "reasoning_content": "..."}}]}
type ExplicitReasoningAdapter struct{}

// NewExplicitReasoningAdapter returns the explicit-reasoning family adapter.
func NewExplicitReasoningAdapter() *ExplicitReasoningAdapter { return &ExplicitReasoningAdapter{} }

func (a *ExplicitReasoningAdapter) Provider() string { return ProviderOpenAI }

type explicitBody struct {
	Model   string            `json:"model"`
	Choices []explicitChoice  `json:"choices"`
}

type explicitChoice struct {
	Message struct {
		Content          string `json:"content"`
		ReasoningContent string `json:"reasoning_content"`
	} `json:"message"`
}

func (a *ExplicitReasoningAdapter) ExtractFromBody(body []byte) *contracts.ExtractedThinking {
	var doc explicitBody
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	if len(doc.Choices) == 0 {
		return nil
	}
	reasoning := doc.Choices[0].Message.ReasoningContent
	if reasoning == "" {
		return nil
	}
	return &contracts.ExtractedThinking{
		Content:          reasoning,
		Provider:         a.Provider(),
		Model:            doc.Model,
		ExtractionMethod: contracts.ExtractionReasoningContent,
		Confidence:       contracts.ConfidenceExplicit,
	}
}

type explicitStreamEvent struct {
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			ReasoningContent string `json:"reasoning_content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (a *ExplicitReasoningAdapter) ExtractFromEventStream(stream []byte) *contracts.ExtractedThinking {
	events := ParseEventLines(stream)
	var builder []string
	model := ""

	for _, raw := range events {
		encoded, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var ev explicitStreamEvent
		if err := json.Unmarshal(encoded, &ev); err != nil {
			continue
		}
		if ev.Model != "" {
			model = ev.Model
		}
		for _, c := range ev.Choices {
			if c.Delta.ReasoningContent != "" {
				builder = append(builder, c.Delta.ReasoningContent)
			}
		}
	}

	if len(builder) == 0 {
		return nil
	}
	content := concat(builder)
	return &contracts.ExtractedThinking{
		Content:          content,
		Provider:         a.Provider(),
		Model:            model,
		ExtractionMethod: contracts.ExtractionReasoningContent,
		Confidence:       contracts.ConfidenceExplicit,
	}
}

// concat joins incremental deltas directly (no separator; they are
// fragments of one continuous reasoning text, unlike discrete blocks).
func concat(parts []string) string {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return string(out)
}
