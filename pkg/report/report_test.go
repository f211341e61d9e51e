package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
)

var stamp = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func onPageResult() map[model.Module]*model.AnalysisResult {
	return map[model.Module]*model.AnalysisResult{
		model.ModuleOnPage: {
			Score:   80,
			Summary: "ok",
			Issues: []model.Issue{{
				ID:             "1",
				Title:          "H1 duplicate",
				Description:    "d",
				Severity:       model.SeverityHigh,
				Recommendation: "fix it",
				CanAutoFix:     true,
			}},
		},
	}
}

func TestBuildNoData(t *testing.T) {
	doc, err := Build("shop.example", map[model.Module]*model.AnalysisResult{}, Options{Now: stamp})
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Nil(t, doc)

	_, err = Build("shop.example", nil, Options{Now: stamp})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBuildSingleModule(t *testing.T) {
	doc, err := Build("shop.example", onPageResult(), Options{Now: stamp})
	require.NoError(t, err)
	html := string(doc)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<section id="ON_PAGE">`)
	assert.Contains(t, html, "On-Page SEO")
	assert.Contains(t, html, "Score: 80/100")
	assert.Contains(t, html, "H1 duplicate")
	assert.Contains(t, html, `<div class="value good">80</div>`, "average score")
	assert.Contains(t, html, "fix it")
	assert.Contains(t, html, "2026-10-17")
	assert.NotContains(t, html, "<pre>", "no snippet, no code block")
}

func TestBuildEscapesSnippetAndModelText(t *testing.T) {
	results := onPageResult()
	results[model.ModuleOnPage].Issues[0].CodeSnippet = `<script>alert("x")</script>`
	results[model.ModuleOnPage].Summary = `<b>bold</b>`

	doc, err := Build("shop.example", results, Options{Now: stamp})
	require.NoError(t, err)
	html := string(doc)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<b>bold</b>")
}

func TestBuildIsDeterministicAndOrdered(t *testing.T) {
	results := onPageResult()
	results[model.ModuleLocal] = &model.AnalysisResult{Score: 41, Summary: "local", Issues: []model.Issue{
		{ID: "a", Title: "NAP mismatch", Severity: model.SeverityCritical},
	}}
	results[model.ModuleTechnical] = &model.AnalysisResult{Score: 60, Summary: "tech", Issues: []model.Issue{}}

	first, err := Build("shop.example", results, Options{Now: stamp})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Build("shop.example", results, Options{Now: stamp})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	html := string(first)
	onPage := strings.Index(html, `id="ON_PAGE"`)
	technical := strings.Index(html, `id="TECHNICAL"`)
	local := strings.Index(html, `id="LOCAL"`)
	assert.True(t, onPage < technical && technical < local, "sections follow module order")
	assert.Contains(t, html, `<div class="value fair">60</div>`, "round((80+60+41)/3)")
}

func TestBuildTurkish(t *testing.T) {
	doc, err := Build("shop.example", onPageResult(), Options{Locale: locale.Turkish, Now: stamp})
	require.NoError(t, err)
	html := string(doc)
	assert.Contains(t, html, `<html lang="tr">`)
	assert.Contains(t, html, "Site İçi (On-Page) SEO")
	assert.Contains(t, html, "YÜKSEK")
	assert.Contains(t, html, "17.10.2026")
}

func TestSummarize(t *testing.T) {
	results := map[model.Module]*model.AnalysisResult{
		model.ModuleOnPage:  {Score: 81, Issues: []model.Issue{{Severity: model.SeverityCritical}, {Severity: model.SeverityLow}}},
		model.ModuleContent: {Score: 70, Issues: []model.Issue{{Severity: model.SeverityCritical}}},
	}
	assert.Equal(t, Summary{AverageScore: 76, Modules: 2, TotalIssues: 3, CriticalIssues: 2}, Summarize(results))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "seo-report-https---shop-example-1792229400000.html", Filename("https://shop.example", stamp))
	assert.Equal(t, "seo-report-My-Shop-com-1792229400000.html", Filename("My_Shop.com", stamp))
}
