package providers

import (
	"encoding/json"

	"github.com/mnemom/aip/pkg/contracts"
)

// PartsWithFlagAdapter extracts from payloads that carry a list of content
// parts, keeping only parts whose boolean reasoning flag is true. This
// matches Gemini's "thought" part shape:
//
//	{"modelVersion": "...", "candidates": [{"content": {"parts": [{"text": "...", "thought": true}, {"text": "..."}]}}]}
type PartsWithFlagAdapter struct{}

// NewPartsWithFlagAdapter returns the parts-with-flag family adapter.
func NewPartsWithFlagAdapter() *PartsWithFlagAdapter { return &PartsWithFlagAdapter{} }

func (a *PartsWithFlagAdapter) Provider() string { return ProviderGoogle }

type partsBody struct {
	ModelVersion string            `json:"modelVersion"`
	Candidates   []partsCandidate  `json:"candidates"`
}

type partsCandidate struct {
	Content struct {
		Parts []partsEntry `json:"parts"`
	} `json:"content"`
}

type partsEntry struct {
	Text    string `json:"text"`
	Thought bool   `json:"thought"`
}

func (a *PartsWithFlagAdapter) ExtractFromBody(body []byte) *contracts.ExtractedThinking {
	var doc partsBody
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	if len(doc.Candidates) == 0 {
		return nil
	}
	var parts []string
	for _, p := range doc.Candidates[0].Content.Parts {
		if !p.Thought || p.Text == "" {
			continue
		}
		parts = append(parts, p.Text)
	}
	if len(parts) == 0 {
		return nil
	}
	return &contracts.ExtractedThinking{
		Content:          joinParts(parts),
		Provider:         a.Provider(),
		Model:            doc.ModelVersion,
		ExtractionMethod: contracts.ExtractionResponseAnalysis,
		Confidence:       contracts.ConfidenceExplicit,
	}
}

type partsStreamEvent struct {
	ModelVersion string `json:"modelVersion"`
	Candidates   []partsCandidate `json:"candidates"`
}

func (a *PartsWithFlagAdapter) ExtractFromEventStream(stream []byte) *contracts.ExtractedThinking {
	events := ParseEventLines(stream)
	var parts []string
	model := ""

	for _, raw := range events {
		encoded, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var ev partsStreamEvent
		if err := json.Unmarshal(encoded, &ev); err != nil {
			continue
		}
		if ev.ModelVersion != "" {
			model = ev.ModelVersion
		}
		for _, c := range ev.Candidates {
			for _, p := range c.Content.Parts {
				if p.Thought && p.Text != "" {
					parts = append(parts, p.Text)
				}
			}
		}
	}

	if len(parts) == 0 {
		return nil
	}
	return &contracts.ExtractedThinking{
		Content:          joinParts(parts),
		Provider:         a.Provider(),
		Model:            model,
		ExtractionMethod: contracts.ExtractionResponseAnalysis,
		Confidence:       contracts.ConfidenceExplicit,
	}
}
