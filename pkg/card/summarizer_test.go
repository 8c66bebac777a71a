package card

import (
	"strings"
	"testing"

	"github.com/mnemom/aip/pkg/contracts"
)

func TestSummarizeCompactValuesNoDescriptions(t *testing.T) {
	c := &contracts.AlignmentCard{
		CardID: "card-1",
		Values: []contracts.Value{
			{Name: "honesty", Priority: 2},
			{Name: "safety", Priority: 1},
		},
	}
	out := Summarize(c)
	if !strings.Contains(out, "ALIGNMENT CARD SUMMARY (card_id: card-1)") {
		t.Errorf("missing header: %s", out)
	}
	if !strings.Contains(out, "Values (priority order): safety, honesty") {
		t.Errorf("expected priority-ordered compact list, got: %s", out)
	}
	if !strings.Contains(out, "Bounded actions: none declared") {
		t.Errorf("expected none-declared bounded actions line, got: %s", out)
	}
}

func TestSummarizeExpandedValuesWithDescriptions(t *testing.T) {
	c := &contracts.AlignmentCard{
		CardID: "card-2",
		Values: []contracts.Value{
			{Name: "safety", Priority: 1, Description: "avoid harm"},
		},
		Autonomy: contracts.Envelope{
			BoundedActions:   []string{"read_files"},
			ForbiddenActions: []string{"delete_production_db"},
			EscalationTriggers: []contracts.EscalationTrigger{
				{Condition: "budget_exceeded", Action: "pause", Reason: "avoid runaway cost"},
				{Condition: "unknown_tool", Action: "deny"},
			},
		},
		AgentDescription: "a coding assistant",
	}
	out := Summarize(c)
	if !strings.Contains(out, "Agent: a coding assistant") {
		t.Errorf("missing agent line: %s", out)
	}
	if !strings.Contains(out, "- safety: avoid harm") {
		t.Errorf("expected expanded value line: %s", out)
	}
	if !strings.Contains(out, "Bounded actions: read_files") {
		t.Errorf("expected bounded actions: %s", out)
	}
	if !strings.Contains(out, "- budget_exceeded → pause: avoid runaway cost") {
		t.Errorf("expected trigger with reason: %s", out)
	}
	if !strings.HasSuffix(out, "  - unknown_tool → deny") {
		t.Errorf("expected trigger without reason (no trailing colon): %s", out)
	}
}

func TestSummarizeExcludesExtensionFields(t *testing.T) {
	c := &contracts.AlignmentCard{CardID: "card-3"}
	out := Summarize(c)
	if strings.Contains(out, "principal") {
		t.Errorf("summary must never mention principal identity: %s", out)
	}
}
