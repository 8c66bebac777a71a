// Package providers extracts an agent's thinking block from heterogeneous
// provider wire formats: complete JSON response bodies and line-oriented
// Server-Sent-Events-style streams. Every adapter is tolerant: a shape
// mismatch or parse failure yields nil, never an error.
package providers

import (
	"bytes"
	"encoding/json"
	"strings"
)

// doneSentinel is the event-stream terminator line that carries no payload.
const doneSentinel = "[DONE]"

// dataLinePrefix is stripped from every "data: ..." line before parsing.
const dataLinePrefix = "data: "

// ParseEventLines scans a raw event-stream body line by line, stripping the
// "data: " prefix, skipping the "[DONE]" sentinel, and skipping any line
// that does not parse as a JSON object, without ever returning an error.
// The returned slice preserves arrival order.
func ParseEventLines(body []byte) []map[string]any {
	var events []map[string]any
	scanner := bufioScanLines(body)
	for _, line := range scanner {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, dataLinePrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, dataLinePrefix)
		payload = strings.TrimSpace(payload)
		if payload == "" || payload == doneSentinel {
			continue
		}
		var event map[string]any
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}

// bufioScanLines splits body on newlines without pulling in bufio.Scanner's
// token-size limits, which matter for long accumulated thinking deltas.
func bufioScanLines(body []byte) []string {
	lines := bytes.Split(body, []byte("\n"))
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out
}

// blockAccumulator reconstructs indexed content blocks from a stream of
// content_block_start / content_block_delta / content_block_stop-shaped
// events, keyed by the index the start event announced. Only blocks flagged
// reasoning by the caller (via markReasoning) are kept on flush.
type blockAccumulator struct {
	buffers    map[int]*strings.Builder
	reasoning  map[int]bool
	seenOrder  []int
}

func newBlockAccumulator() *blockAccumulator {
	return &blockAccumulator{
		buffers:   make(map[int]*strings.Builder),
		reasoning: make(map[int]bool),
	}
}

func (b *blockAccumulator) ensure(index int) *strings.Builder {
	buf, ok := b.buffers[index]
	if !ok {
		buf = &strings.Builder{}
		b.buffers[index] = buf
		b.seenOrder = append(b.seenOrder, index)
	}
	return buf
}

func (b *blockAccumulator) markReasoning(index int) {
	b.ensure(index)
	b.reasoning[index] = true
}

func (b *blockAccumulator) append(index int, text string) {
	b.ensure(index).WriteString(text)
}

// flush concatenates reasoning-marked blocks in ascending index order, joined
// by the fixed native-thinking separator.
func (b *blockAccumulator) flush() string {
	indices := append([]int{}, b.seenOrder...)
	sortInts(indices)

	var parts []string
	for _, idx := range indices {
		if !b.reasoning[idx] {
			continue
		}
		buf := b.buffers[idx]
		if buf.Len() == 0 {
			continue
		}
		parts = append(parts, buf.String())
	}
	return strings.Join(parts, blockSeparator)
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// blockSeparator joins concatenated reasoning segments across both complete
// bodies and reconstructed streams.
const blockSeparator = "\n\n---\n\n"
