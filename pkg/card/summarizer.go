// Package card compresses an AlignmentCard into a bounded plaintext summary
// suitable for inclusion in an analysis prompt. The summary
// deliberately excludes principal identity, audit commitments, and any
// extension fields, only the values, bounded/forbidden actions, and
// escalation triggers the analysis model needs to evaluate against.
package card

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mnemom/aip/pkg/contracts"
)

// TargetTokenBudget is the soft ceiling the summary aims to stay under.
const TargetTokenBudget = 500

// Summarize renders c into the fixed-section plaintext summary.
func Summarize(c *contracts.AlignmentCard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ALIGNMENT CARD SUMMARY (card_id: %s)\n", c.CardID)

	if desc := strings.TrimSpace(c.AgentDescription); desc != "" {
		fmt.Fprintf(&b, "Agent: %s\n", norm.NFC.String(desc))
	}

	writeValues(&b, c.SortedValues())
	writeActionList(&b, "Bounded actions", c.Autonomy.BoundedActions)
	writeActionList(&b, "Forbidden actions", c.Autonomy.ForbiddenActions)
	writeTriggers(&b, c.Autonomy.EscalationTriggers)

	return strings.TrimRight(b.String(), "\n")
}

func writeValues(b *strings.Builder, values []contracts.Value) {
	b.WriteString("Values (priority order): ")
	if len(values) == 0 {
		b.WriteString("none declared\n")
		return
	}

	hasDescription := false
	for _, v := range values {
		if strings.TrimSpace(v.Description) != "" {
			hasDescription = true
			break
		}
	}

	if !hasDescription {
		names := make([]string, len(values))
		for i, v := range values {
			names[i] = v.Name
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
		return
	}

	b.WriteString("\n")
	for _, v := range values {
		if strings.TrimSpace(v.Description) == "" {
			fmt.Fprintf(b, "- %s\n", v.Name)
			continue
		}
		fmt.Fprintf(b, "- %s: %s\n", v.Name, norm.NFC.String(v.Description))
	}
}

func writeActionList(b *strings.Builder, label string, actions []string) {
	if len(actions) == 0 {
		fmt.Fprintf(b, "%s: none declared\n", label)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(actions, ", "))
}

func writeTriggers(b *strings.Builder, triggers []contracts.EscalationTrigger) {
	b.WriteString("Escalation triggers:\n")
	if len(triggers) == 0 {
		b.WriteString("  none declared\n")
		return
	}
	for _, t := range triggers {
		if strings.TrimSpace(t.Reason) == "" {
			fmt.Fprintf(b, "  - %s → %s\n", t.Condition, t.Action)
			continue
		}
		fmt.Fprintf(b, "  - %s → %s: %s\n", t.Condition, t.Action, t.Reason)
	}
}
