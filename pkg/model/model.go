package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Module identifies one of the fixed analysis categories.
type Module string

const (
	ModuleOnPage    Module = "ON_PAGE"
	ModuleOffPage   Module = "OFF_PAGE"
	ModuleTechnical Module = "TECHNICAL"
	ModuleContent   Module = "CONTENT"
	ModuleBlackHat  Module = "BLACK_HAT"
	ModuleLocal     Module = "LOCAL"
)

// DefaultModule is the module a fresh session starts on.
const DefaultModule = ModuleOnPage

var ErrUnknownModule = errors.New("unknown module")

// Modules returns every module in display order.
func Modules() []Module {
	return []Module{
		ModuleOnPage,
		ModuleOffPage,
		ModuleTechnical,
		ModuleContent,
		ModuleBlackHat,
		ModuleLocal,
	}
}

// Valid reports whether m is one of the known modules.
func (m Module) Valid() bool {
	for _, known := range Modules() {
		if m == known {
			return true
		}
	}
	return false
}

// Slug returns the kebab form used in URLs and flags (e.g. "on-page").
func (m Module) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(m)), "_", "-")
}

// ParseModule accepts "ON_PAGE", "on_page" or "on-page".
func ParseModule(s string) (Module, error) {
	candidate := Module(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !candidate.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownModule, s)
	}
	return candidate, nil
}

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityPassed   Severity = "PASSED"
)

// Severities lists the values the completion endpoint may return.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityPassed}
}

type Issue struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
	CanAutoFix     bool     `json:"canAutoFix" yaml:"canAutoFix"`
	CodeSnippet    string   `json:"codeSnippet,omitempty" yaml:"codeSnippet,omitempty"`
}

// Fixable reports whether a fix may be requested for the issue.
func (i Issue) Fixable() bool {
	return i.CanAutoFix && i.Severity != SeverityPassed
}

// Scores are whole numbers in [MinScore, MaxScore].
const (
	MinScore = 0
	MaxScore = 100
)

var ErrScoreOutOfRange = errors.New("score out of range")

type AnalysisResult struct {
	Score   int     `json:"score" yaml:"score"`
	Summary string  `json:"summary" yaml:"summary"`
	Issues  []Issue `json:"issues" yaml:"issues"`
}

// UnmarshalJSON accepts fractional scores ("72.0", "72.5") and rounds them.
// Scores outside [MinScore, MaxScore] are rejected.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	type alias AnalysisResult
	aux := struct {
		*alias
		Score float64 `json:"score"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Score < MinScore || aux.Score > MaxScore {
		return fmt.Errorf("%w: %v", ErrScoreOutOfRange, aux.Score)
	}
	r.Score = int(math.Round(aux.Score))
	return nil
}

// Issue looks up an issue by id.
func (r *AnalysisResult) Issue(id string) (Issue, bool) {
	for _, issue := range r.Issues {
		if issue.ID == id {
			return issue, true
		}
	}
	return Issue{}, false
}

// CountSeverity returns how many issues carry the given severity.
func (r *AnalysisResult) CountSeverity(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

type FixResult struct {
	Explanation string `json:"explanation" yaml:"explanation"`
	FixedCode   string `json:"fixedCode" yaml:"fixedCode"`
}

// Outcome is either a completed result or the reason the analysis failed.
type Outcome struct {
	Module Module
	Result *AnalysisResult
	Err    error
}

func (o Outcome) Failed() bool {
	return o.Err != nil || o.Result == nil
}

// ResultOr returns the result, or fallback when the analysis failed.
func (o Outcome) ResultOr(fallback *AnalysisResult) *AnalysisResult {
	if o.Failed() {
		return fallback
	}
	return o.Result
}
