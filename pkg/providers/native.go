package providers

import (
	"encoding/json"
	"strings"

	"github.com/mnemom/aip/pkg/contracts"
)

// NativeThinkingAdapter extracts from payloads that carry a typed content
// array, concatenating entries whose type marks them as reasoning. This
// matches Anthropic's extended-thinking response shape:
//
//	{"model": "...", "content": [{"type": "thinking", "thinking": "..."}, {"type": "text", "text": "..."}]}
type NativeThinkingAdapter struct{}

// NewNativeThinkingAdapter returns the native-thinking family adapter.
func NewNativeThinkingAdapter() *NativeThinkingAdapter { return &NativeThinkingAdapter{} }

func (a *NativeThinkingAdapter) Provider() string { return ProviderAnthropic }

type nativeBody struct {
	Model   string           `json:"model"`
	Content []nativeBlock    `json:"content"`
}

type nativeBlock struct {
	Type     string `json:"type"`
	Thinking string `json:"thinking"`
	Text     string `json:"text"`
}

const (
	nativeTypeThinking         = "thinking"
	nativeTypeRedactedThinking = "redacted_thinking"
)

func isNativeReasoningType(t string) bool {
	return t == nativeTypeThinking || t == nativeTypeRedactedThinking
}

func (a *NativeThinkingAdapter) ExtractFromBody(body []byte) *contracts.ExtractedThinking {
	var doc nativeBody
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	var parts []string
	for _, block := range doc.Content {
		if !isNativeReasoningType(block.Type) {
			continue
		}
		if block.Thinking == "" {
			continue
		}
		parts = append(parts, block.Thinking)
	}
	if len(parts) == 0 {
		return nil
	}
	return &contracts.ExtractedThinking{
		Content:          joinParts(parts),
		Provider:         a.Provider(),
		Model:            doc.Model,
		ExtractionMethod: contracts.ExtractionNativeThinking,
		Confidence:       contracts.ConfidenceNative,
	}
}

// nativeStreamEvent covers the subset of Anthropic's streaming event shapes
// this adapter needs: content_block_start announces a block's index and
// type; content_block_delta carries incremental text for a previously
// announced index.
type nativeStreamEvent struct {
	Type         string `json:"type"`
	Index        int    `json:"index"`
	ContentBlock *struct {
		Type     string `json:"type"`
		Thinking string `json:"thinking"`
	} `json:"content_block"`
	Delta *struct {
		Type     string `json:"type"`
		Thinking string `json:"thinking"`
		Text     string `json:"text"`
	} `json:"delta"`
	Message *struct {
		Model string `json:"model"`
	} `json:"message"`
}

const (
	eventContentBlockStart = "content_block_start"
	eventContentBlockDelta = "content_block_delta"
	deltaTypeThinking      = "thinking_delta"
)

func (a *NativeThinkingAdapter) ExtractFromEventStream(stream []byte) *contracts.ExtractedThinking {
	events := ParseEventLines(stream)
	acc := newBlockAccumulator()
	model := ""

	for _, raw := range events {
		encoded, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var ev nativeStreamEvent
		if err := json.Unmarshal(encoded, &ev); err != nil {
			continue
		}
		if ev.Message != nil && ev.Message.Model != "" {
			model = ev.Message.Model
		}
		switch ev.Type {
		case eventContentBlockStart:
			if ev.ContentBlock != nil && isNativeReasoningType(ev.ContentBlock.Type) {
				acc.markReasoning(ev.Index)
				if ev.ContentBlock.Thinking != "" {
					acc.append(ev.Index, ev.ContentBlock.Thinking)
				}
			}
		case eventContentBlockDelta:
			if ev.Delta != nil && ev.Delta.Type == deltaTypeThinking {
				acc.markReasoning(ev.Index)
				acc.append(ev.Index, ev.Delta.Thinking)
			}
		}
	}

	content := acc.flush()
	if content == "" {
		return nil
	}
	return &contracts.ExtractedThinking{
		Content:          content,
		Provider:         a.Provider(),
		Model:            model,
		ExtractionMethod: contracts.ExtractionNativeThinking,
		Confidence:       contracts.ConfidenceNative,
	}
}

func joinParts(parts []string) string {
	return strings.Join(parts, blockSeparator)
}
