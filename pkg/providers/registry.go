package providers

import (
	"strings"
	"sync"

	"github.com/mnemom/aip/pkg/contracts"
)

// Adapter extracts an ExtractedThinking from one provider's wire formats.
type Adapter interface {
	// Provider returns the adapter's registry key.
	Provider() string
	// ExtractFromBody extracts from a complete, non-streaming JSON body.
	// Returns nil if this adapter finds no reasoning content.
	ExtractFromBody(body []byte) *contracts.ExtractedThinking
	// ExtractFromEventStream extracts from a line-oriented event stream.
	// Returns nil if this adapter finds no reasoning content.
	ExtractFromEventStream(stream []byte) *contracts.ExtractedThinking
}

// urlMatch pairs a lowercase URL substring with the provider name it identifies.
type urlMatch struct {
	substring string
	provider  string
}

// Registry holds adapters keyed by provider name, with a universal fallback.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	fallback Adapter
	urlRules []urlMatch
}

// NewRegistry returns a registry pre-populated with the three concrete
// provider families and the heuristic fallback.
func NewRegistry() *Registry {
	r := &Registry{
		adapters: make(map[string]Adapter),
		fallback: NewFallbackAdapter(),
		urlRules: []urlMatch{
			{substring: "anthropic", provider: ProviderAnthropic},
			{substring: "openai", provider: ProviderOpenAI},
			{substring: "generativelanguage", provider: ProviderGoogle},
			{substring: "google", provider: ProviderGoogle},
		},
	}
	r.Register(NewNativeThinkingAdapter())
	r.Register(NewExplicitReasoningAdapter())
	r.Register(NewPartsWithFlagAdapter())
	return r
}

// Register inserts or replaces an adapter by its Provider() name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Provider()] = a
}

// Get returns the named adapter, or the fallback if name is unknown.
func (r *Registry) Get(name string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.adapters[name]; ok {
		return a
	}
	return r.fallback
}

// Fallback returns the universal heuristic adapter directly.
func (r *Registry) Fallback() Adapter {
	return r.fallback
}

// Providers lists every registered provider key (not including the fallback).
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}

// DetectFromURL matches substrings of the lowercased url against the known
// provider families and returns the provider name, or "" if none match.
func (r *Registry) DetectFromURL(url string) string {
	lower := strings.ToLower(url)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.urlRules {
		if strings.Contains(lower, rule.substring) {
			return rule.provider
		}
	}
	return ""
}

// Extract runs the adapter named by providerHint (the heuristic adapter when
// the name is unknown) against body, falling back to the heuristic adapter
// when the primary adapter finds nothing.
func (r *Registry) Extract(providerHint string, body []byte) *contracts.ExtractedThinking {
	adapter := r.Get(providerHint)
	if t := adapter.ExtractFromBody(body); t != nil {
		return t
	}
	if adapter.Provider() == r.fallback.Provider() {
		return nil
	}
	return r.fallback.ExtractFromBody(body)
}

// ExtractFromEventStream is the streaming counterpart of Extract.
func (r *Registry) ExtractFromEventStream(providerHint string, stream []byte) *contracts.ExtractedThinking {
	adapter := r.Get(providerHint)
	if t := adapter.ExtractFromEventStream(stream); t != nil {
		return t
	}
	if adapter.Provider() == r.fallback.Provider() {
		return nil
	}
	return r.fallback.ExtractFromEventStream(stream)
}

// Provider name constants for the three native families and the fallback.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderFallback  = "heuristic"
)
