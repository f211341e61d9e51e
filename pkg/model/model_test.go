package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModule(t *testing.T) {
	cases := map[string]Module{
		"ON_PAGE":   ModuleOnPage,
		"on-page":   ModuleOnPage,
		"off_page":  ModuleOffPage,
		"Technical": ModuleTechnical,
		" content ": ModuleContent,
		"black-hat": ModuleBlackHat,
		"LOCAL":     ModuleLocal,
	}
	for in, want := range cases {
		got, err := ParseModule(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseModule("social")
	assert.True(t, errors.Is(err, ErrUnknownModule))
}

func TestModulesAreClosedAndOrdered(t *testing.T) {
	mods := Modules()
	require.Len(t, mods, 6)
	assert.Equal(t, DefaultModule, mods[0])
	for _, m := range mods {
		assert.True(t, m.Valid())
	}
	assert.False(t, Module("SOCIAL").Valid())
	assert.Equal(t, "black-hat", ModuleBlackHat.Slug())
}

func TestIssueFixable(t *testing.T) {
	assert.True(t, Issue{CanAutoFix: true, Severity: SeverityHigh}.Fixable())
	assert.False(t, Issue{CanAutoFix: false, Severity: SeverityHigh}.Fixable())
	assert.False(t, Issue{CanAutoFix: true, Severity: SeverityPassed}.Fixable())
}

func TestOutcome(t *testing.T) {
	fallback := &AnalysisResult{Summary: "fallback"}
	ok := Outcome{Module: ModuleLocal, Result: &AnalysisResult{Score: 0}}
	assert.False(t, ok.Failed(), "a zero score is still a success")
	assert.Same(t, ok.Result, ok.ResultOr(fallback))

	failed := Outcome{Module: ModuleLocal, Err: errors.New("boom")}
	assert.True(t, failed.Failed())
	assert.Same(t, fallback, failed.ResultOr(fallback))
}

func TestAnalysisResultHelpers(t *testing.T) {
	r := &AnalysisResult{Issues: []Issue{
		{ID: "a", Severity: SeverityCritical},
		{ID: "b", Severity: SeverityCritical},
		{ID: "c", Severity: SeverityLow},
	}}
	assert.Equal(t, 2, r.CountSeverity(SeverityCritical))
	issue, ok := r.Issue("c")
	require.True(t, ok)
	assert.Equal(t, SeverityLow, issue.Severity)
	_, ok = r.Issue("missing")
	assert.False(t, ok)
}

func TestAnalysisResultUnmarshalRoundsScore(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"score":72.0,"summary":"s","issues":[]}`), &r))
	assert.Equal(t, 72, r.Score)
	assert.Equal(t, "s", r.Summary)

	require.NoError(t, json.Unmarshal([]byte(`{"score":64.5,"summary":"s","issues":[{"id":"1","title":"t","severity":"LOW","canAutoFix":true}]}`), &r))
	assert.Equal(t, 65, r.Score)
	require.Len(t, r.Issues, 1)
	assert.True(t, r.Issues[0].CanAutoFix)
}

func TestAnalysisResultUnmarshalRejectsScoreOutOfRange(t *testing.T) {
	for _, score := range []string{"150", "-40", "1e30", "100.4", "-0.1"} {
		var r AnalysisResult
		err := json.Unmarshal([]byte(`{"score":`+score+`,"summary":"s","issues":[]}`), &r)
		assert.True(t, errors.Is(err, ErrScoreOutOfRange), score)
	}

	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"score":100,"summary":"s","issues":[]}`), &r))
	assert.Equal(t, MaxScore, r.Score)
}
