package coach

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/fitcoach/internal/model"
)

// Outcome tags the result of parsing a model reply.
type Outcome int

const (
	// Parsed: the reply is a JSON object with a non-empty "plan" array.
	Parsed Outcome = iota
	// ParseFailed: the reply is not valid JSON.
	ParseFailed
	// MissingPlanField: valid JSON, but no "plan" array of day objects.
	MissingPlanField
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case ParseFailed:
		return "parse_failed"
	case MissingPlanField:
		return "missing_plan_field"
	default:
		return "unknown"
	}
}

type ParseResult struct {
	Outcome Outcome
	// Plan holds the reply verbatim when Outcome is Parsed.
	Plan json.RawMessage
	Err  error
}

var errMissingPlan = errors.New("response is missing the 'plan' array")

// StripFences removes a surrounding Markdown code fence (```json or ```)
// from a model reply.
func StripFences(text string) string {
	s := strings.TrimSpace(text)

	var ok bool
	if rest, found := strings.CutPrefix(s, "```json"); found {
		s, ok = rest, true
	} else if rest, found := strings.CutPrefix(s, "```"); found {
		s, ok = rest, true
	}
	if !ok {
		return s
	}

	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSpace(s)
}

// ParsePlan strips fences from text and classifies it.
func ParsePlan(text string) ParseResult {
	body := StripFences(text)

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return ParseResult{Outcome: ParseFailed, Err: err}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return ParseResult{Outcome: MissingPlanField, Err: errMissingPlan}
	}
	plan, ok := obj["plan"].([]any)
	if !ok || len(plan) == 0 {
		return ParseResult{Outcome: MissingPlanField, Err: errMissingPlan}
	}

	var wp model.WorkoutPlan
	if err := json.Unmarshal([]byte(body), &wp); err != nil {
		return ParseResult{Outcome: MissingPlanField, Err: fmt.Errorf("%w: %w", errMissingPlan, err)}
	}
	for i, day := range wp.Plan {
		if day.Focus == "" && len(day.Exercises) == 0 {
			return ParseResult{Outcome: MissingPlanField, Err: fmt.Errorf("%w: day %d is empty", errMissingPlan, i+1)}
		}
	}

	return ParseResult{Outcome: Parsed, Plan: json.RawMessage(body)}
}
