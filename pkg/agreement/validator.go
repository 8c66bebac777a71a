// Package agreement checks a card's declared BOUNDARY/FEAR conscience values
// against its own autonomy envelope: do the values the agent carries
// contradict the actions it is allowed, forbidden, or escalates on.
// It never inspects a thinking block; it validates a card's internal
// consistency once, at initialization.
package agreement

import (
	"regexp"
	"strings"
	"time"

	"github.com/mnemom/aip/pkg/contracts"
)

// negationMarkers are the literal substrings whose presence alongside a
// matched action name turns a mention into a conflict rather than a mention.
var negationMarkers = []string{"never", "no ", "don't", "do not"}

// Conflict is a BOUNDARY value whose content contradicts a bounded action.
type Conflict struct {
	ConscienceValueID string `json:"conscience_value_id"`
	CardField         string `json:"card_field"`
	ActionName        string `json:"action_name"`
	Detail            string `json:"detail"`
}

// Augmentation is a non-blocking mention of a forbidden action or an
// escalation trigger condition inside a BOUNDARY/FEAR value.
type Augmentation struct {
	ConscienceValueID string `json:"conscience_value_id"`
	Augments          string `json:"augments"`
	ActionName        string `json:"action_name"`
}

// Result is the outcome of validating one card's conscience values.
type Result struct {
	Valid                bool           `json:"valid"`
	Conflicts            []Conflict     `json:"conflicts"`
	Augmentations        []Augmentation `json:"augmentations"`
	CardID               string         `json:"card_id"`
	ConscienceValueCount int            `json:"conscience_value_count"`
	ValidatedAt          time.Time      `json:"validated_at"`
}

// Validate examines every BOUNDARY/FEAR value in values against card and
// returns the conflicts/augmentations found. Valid is true iff no conflicts
// were found; the orchestrator is expected to treat !Valid as a hard
// initialization failure.
func Validate(card *contracts.AlignmentCard, values []contracts.ConscienceValue) Result {
	result := Result{
		Conflicts:     []Conflict{},
		Augmentations: []Augmentation{},
		CardID:        card.CardID,
		ValidatedAt:   time.Now().UTC(),
	}

	injectable := contracts.FilterInjectable(values)
	result.ConscienceValueCount = len(injectable)

	for _, v := range injectable {
		lowered := strings.ToLower(v.Content)
		negated := v.Kind == contracts.ConscienceBoundary && containsNegation(lowered)

		for _, action := range card.Autonomy.BoundedActions {
			if matchesAction(lowered, action) && negated {
				result.Conflicts = append(result.Conflicts, Conflict{
					ConscienceValueID: v.ID,
					CardField:         "autonomy_envelope.bounded_actions",
					ActionName:        action,
					Detail:            v.Content,
				})
			}
		}

		for _, action := range card.Autonomy.ForbiddenActions {
			if matchesAction(lowered, action) {
				result.Augmentations = append(result.Augmentations, Augmentation{
					ConscienceValueID: v.ID,
					Augments:          "autonomy_envelope.forbidden_actions",
					ActionName:        action,
				})
			}
		}

		for _, trigger := range card.Autonomy.EscalationTriggers {
			if matchesAction(lowered, trigger.Condition) {
				result.Augmentations = append(result.Augmentations, Augmentation{
					ConscienceValueID: v.ID,
					Augments:          "autonomy_envelope.escalation_triggers",
					ActionName:        trigger.Condition,
				})
			}
		}
	}

	result.Valid = len(result.Conflicts) == 0
	return result
}

func containsNegation(lowered string) bool {
	for _, marker := range negationMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// matchesAction reports whether name appears in content as a whole word,
// in either its declared snake_case form or with underscores rewritten to
// spaces (conscience content is free prose, so both spellings count).
func matchesAction(content, name string) bool {
	lowered := strings.ToLower(name)
	forms := []string{lowered}
	if spaced := strings.ReplaceAll(lowered, "_", " "); spaced != lowered {
		forms = append(forms, spaced)
	}
	for _, form := range forms {
		pattern := `\b` + regexp.QuoteMeta(form) + `\b`
		if matched, err := regexp.MatchString(pattern, content); err == nil && matched {
			return true
		}
	}
	return false
}
