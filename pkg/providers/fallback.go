package providers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mnemom/aip/pkg/contracts"
)

// reasoningIndicators are fixed sentence-initial phrases the fallback
// adapter treats as markers of reasoning prose inside a model's visible
// output. English-only by construction: a non-English agent will silently
// get nil from this path.
var reasoningIndicators = []string{
	`(?i)^let me (think|analyze|consider|reason)`,
	`(?i)^i (need|should|must|want) to`,
	`(?i)^i'm (thinking|considering|weighing)`,
	`(?i)^thinking (about|through) this`,
	`(?i)^considering the`,
	`(?i)^my reasoning is`,
	`(?i)^first,? i`,
	`(?i)^before (i|responding)`,
	`(?i)^to (figure out|determine|decide)`,
	`(?i)^i want to make sure`,
}

var reasoningIndicatorRegexps = compileIndicators(reasoningIndicators)

func compileIndicators(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// sentenceSplit is a simple sentence boundary on ". ", "! ", "? " or newline,
// sufficient for flagging sentence-initial indicator phrases without a full
// NLP sentence tokenizer.
var sentenceSplit = regexp.MustCompile(`(?:[.!?]\s+|\n+)`)

// FallbackAdapter is the universal heuristic extractor, applied only when no
// structured extraction succeeds.
type FallbackAdapter struct{}

// NewFallbackAdapter returns the heuristic fallback adapter.
func NewFallbackAdapter() *FallbackAdapter { return &FallbackAdapter{} }

func (a *FallbackAdapter) Provider() string { return ProviderFallback }

func (a *FallbackAdapter) ExtractFromBody(body []byte) *contracts.ExtractedThinking {
	text, model := locateVisibleText(body)
	return a.extractFromText(text, model)
}

func (a *FallbackAdapter) ExtractFromEventStream(stream []byte) *contracts.ExtractedThinking {
	events := ParseEventLines(stream)
	var builder []string
	model := ""
	for _, raw := range events {
		encoded, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		text, m := locateVisibleText(encoded)
		if m != "" {
			model = m
		}
		if text != "" {
			builder = append(builder, text)
		}
	}
	return a.extractFromText(concat(builder), model)
}

func (a *FallbackAdapter) extractFromText(text, model string) *contracts.ExtractedThinking {
	if text == "" {
		return nil
	}
	sentences := sentenceSplit.Split(text, -1)
	var matched []string
	for _, s := range sentences {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		for _, re := range reasoningIndicatorRegexps {
			if re.MatchString(trimmed) {
				matched = append(matched, trimmed)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return &contracts.ExtractedThinking{
		Content:          strings.Join(matched, " "),
		Provider:         ProviderFallback,
		Model:            model,
		ExtractionMethod: contracts.ExtractionResponseAnalysis,
		Confidence:       contracts.ConfidenceHeuristic,
	}
}

// locateVisibleText tries each of the three known response shapes in turn
// and returns the model's visible output text plus the declared model name,
// without regard to whether any reasoning flag/field is present; the
// fallback only ever looks at text a human would actually see.
func locateVisibleText(body []byte) (text, model string) {
	var native nativeBody
	if err := json.Unmarshal(body, &native); err == nil && len(native.Content) > 0 {
		var parts []string
		for _, b := range native.Content {
			if b.Type == "text" && b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " "), native.Model
		}
	}

	var explicit explicitBody
	if err := json.Unmarshal(body, &explicit); err == nil && len(explicit.Choices) > 0 {
		if c := explicit.Choices[0].Message.Content; c != "" {
			return c, explicit.Model
		}
	}

	var parts partsBody
	if err := json.Unmarshal(body, &parts); err == nil && len(parts.Candidates) > 0 {
		var collected []string
		for _, p := range parts.Candidates[0].Content.Parts {
			if !p.Thought && p.Text != "" {
				collected = append(collected, p.Text)
			}
		}
		if len(collected) > 0 {
			return strings.Join(collected, " "), parts.ModelVersion
		}
	}

	return "", ""
}
