package models

import "time"

// Suggestion types produced by the healing strategies.
const (
	SuggestionIdentifierVariation = "identifier-variation"
	SuggestionRoleLabel           = "role-label"
	SuggestionTextMatch           = "text-match"
	SuggestionStructural          = "structural"
	SuggestionMapping             = "mapping"
)

// SelectorMapping is a persisted record of a previously successful repair.
// Mappings are append-only; multiple mappings for the same original selector
// may coexist when produced in different test contexts.
type SelectorMapping struct {
	TestFile         string    `json:"testFile"`
	TestName         string    `json:"testName"`
	OriginalSelector string    `json:"originalSelector"`
	HealedSelector   string    `json:"healedSelector"`
	Timestamp        time.Time `json:"timestamp"`
	Confidence       float64   `json:"confidence"`
}

// HealingContext identifies where a broken selector was encountered.
type HealingContext struct {
	TestFile string
	TestName string
}

// SelectorSuggestion is one ranked candidate replacement. Every suggestion
// surfaced to a caller has been probed and confirmed resolvable.
type SelectorSuggestion struct {
	Selector   string  `json:"selector"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// HealingResult is the outcome of a healing attempt. Healed is true only
// when a candidate was selected (auto-applied or recalled from a persisted
// mapping); otherwise Suggestions carries the ranked candidates for manual
// approval.
type HealingResult struct {
	Healed      bool                 `json:"healed"`
	Selector    string               `json:"selector,omitempty"`
	Suggestions []SelectorSuggestion `json:"suggestions"`
	Reason      string               `json:"reason,omitempty"`
}
