package report

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"regexp"
	"time"

	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
)

// ErrNoData is returned when there is no completed module to report on.
var ErrNoData = errors.New("no analysis results to report")

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"scoreClass":    scoreClass,
	"severityClass": severityClass,
}).Parse(reportTemplate))

type Options struct {
	Locale locale.Locale
	// Now stamps the report date; it is the only non-deterministic input.
	Now time.Time
}

// Summary aggregates every present module.
type Summary struct {
	AverageScore   int `json:"averageScore"`
	Modules        int `json:"modules"`
	TotalIssues    int `json:"totalIssues"`
	CriticalIssues int `json:"criticalIssues"`
}

func Summarize(results map[model.Module]*model.AnalysisResult) Summary {
	var s Summary
	total := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Modules++
		total += r.Score
		s.TotalIssues += len(r.Issues)
		s.CriticalIssues += r.CountSeverity(model.SeverityCritical)
	}
	if s.Modules > 0 {
		s.AverageScore = int(math.Round(float64(total) / float64(s.Modules)))
	}
	return s
}

type section struct {
	Module model.Module
	Title  string
	Result *model.AnalysisResult
}

type page struct {
	Domain   string
	Lang     string
	Date     string
	Summary  Summary
	Sections []section
	M        *locale.Messages
}

// Build renders a self-contained HTML report. Sections follow the module
// display order, so output depends only on the inputs and opts.Now.
func Build(domain string, results map[model.Module]*model.AnalysisResult, opts Options) ([]byte, error) {
	summary := Summarize(results)
	if summary.Modules == 0 {
		return nil, ErrNoData
	}

	lang := opts.Locale
	if lang == "" {
		lang = locale.Default
	}
	msgs := lang.Messages()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	p := page{
		Domain:  domain,
		Lang:    string(lang),
		Date:    now.Format(msgs.DateFormat),
		Summary: summary,
		M:       msgs,
	}
	for _, m := range model.Modules() {
		if r := results[m]; r != nil {
			p.Sections = append(p.Sections, section{Module: m, Title: msgs.ModuleTitle(m), Result: r})
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeChars = regexp.MustCompile(`(?i)[^a-z0-9]`)

// Filename returns seo-report-<sanitized-domain>-<unix millis>.html.
func Filename(domain string, t time.Time) string {
	return fmt.Sprintf("seo-report-%s-%d.html", unsafeChars.ReplaceAllString(domain, "-"), t.UnixMilli())
}

func scoreClass(score int) string {
	switch {
	case score >= 80:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}

func severityClass(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "sev-critical"
	case model.SeverityHigh:
		return "sev-high"
	case model.SeverityMedium:
		return "sev-medium"
	case model.SeverityLow:
		return "sev-low"
	case model.SeverityPassed:
		return "sev-passed"
	default:
		return "sev-unknown"
	}
}
