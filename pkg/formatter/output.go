package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/report"
)

// ModuleResult is one analyzed module in machine-readable output.
type ModuleResult struct {
	Module  model.Module  `json:"module" yaml:"module"`
	Title   string        `json:"title" yaml:"title"`
	Score   int           `json:"score" yaml:"score"`
	Summary string        `json:"summary" yaml:"summary"`
	Issues  []model.Issue `json:"issues" yaml:"issues"`
}

// Audit is the full output of an analyze run.
type Audit struct {
	Domain  string         `json:"domain" yaml:"domain"`
	Summary report.Summary `json:"summary" yaml:"summary"`
	Modules []ModuleResult `json:"modules" yaml:"modules"`
}

// NewAudit orders results by module display order.
func NewAudit(domain string, results map[model.Module]*model.AnalysisResult, msgs *locale.Messages) *Audit {
	audit := &Audit{Domain: domain, Summary: report.Summarize(results), Modules: []ModuleResult{}}
	for _, m := range model.Modules() {
		r := results[m]
		if r == nil {
			continue
		}
		audit.Modules = append(audit.Modules, ModuleResult{
			Module:  m,
			Title:   msgs.ModuleTitle(m),
			Score:   r.Score,
			Summary: r.Summary,
			Issues:  r.Issues,
		})
	}
	return audit
}

// DisplayResults formats and writes the audit
func DisplayResults(w io.Writer, audit *Audit, msgs *locale.Messages, format string) error {
	switch format {
	case "json":
		return displayJSON(w, audit)
	case "yaml":
		return displayYAML(w, audit)
	case "human":
		fallthrough
	default:
		displayHuman(w, audit, msgs)
	}
	return nil
}

// ModuleInfo describes one module for listings.
type ModuleInfo struct {
	Module      model.Module `json:"module" yaml:"module"`
	Slug        string       `json:"slug" yaml:"slug"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
}

// DisplayModules lists every module in display order.
func DisplayModules(w io.Writer, msgs *locale.Messages, format string) error {
	modules := make([]ModuleInfo, 0, len(model.Modules()))
	for _, m := range model.Modules() {
		modules = append(modules, ModuleInfo{
			Module:      m,
			Slug:        m.Slug(),
			Title:       msgs.ModuleTitle(m),
			Description: msgs.ModuleDescriptions[m],
		})
	}

	switch format {
	case "json":
		return displayJSON(w, modules)
	case "yaml":
		return displayYAML(w, modules)
	}

	cyan := color.New(color.FgCyan, color.Bold)
	for _, info := range modules {
		cyan.Fprintf(w, "%-10s", info.Slug)
		fmt.Fprintf(w, " %s\n", info.Title)
		if info.Description != "" {
			fmt.Fprintf(w, "           %s\n", color.HiBlackString(info.Description))
		}
	}
	return nil
}

// DisplayFix writes a generated fix for one issue.
func DisplayFix(w io.Writer, issue model.Issue, fix *model.FixResult, format string) error {
	switch format {
	case "json":
		return displayJSON(w, fix)
	case "yaml":
		return displayYAML(w, fix)
	}

	green := color.New(color.FgGreen, color.Bold)
	fmt.Fprintln(w)
	green.Fprintf(w, "🔧 FIX FOR: %s\n", issue.Title)
	fmt.Fprintln(w, wrapText(fix.Explanation, 80, "   "))
	if fix.FixedCode != "" {
		fmt.Fprintln(w)
		for _, line := range strings.Split(fix.FixedCode, "\n") {
			fmt.Fprintf(w, "   %s\n", color.CyanString(line))
		}
	}
	fmt.Fprintln(w)
	return nil
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayHuman(w io.Writer, audit *Audit, msgs *locale.Messages) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "🔍 %s: %s\n", msgs.ReportTitle, audit.Domain)
	fmt.Fprintln(w)

	for _, mod := range audit.Modules {
		white.Fprintf(w, "📄 %s ", strings.ToUpper(mod.Title))
		scoreColor(mod.Score).Fprintf(w, "%d/100\n", mod.Score)
		if mod.Summary != "" {
			fmt.Fprintln(w, wrapText(mod.Summary, 80, "   "))
		}
		fmt.Fprintln(w)

		if len(mod.Issues) > 0 {
			yellow.Fprintf(w, "   ⚠️  %s:\n", strings.ToUpper(msgs.IssuesLabel))
			for i, issue := range mod.Issues {
				label := getSeverityColor(issue.Severity).Sprint(msgs.SeverityLabel(issue.Severity))
				fmt.Fprintf(w, "   %d. %s %s [%s]\n", i+1, getSeverityIcon(issue.Severity), issue.Title, label)
				if issue.Description != "" {
					fmt.Fprintln(w, wrapText(issue.Description, 80, "      "))
				}
				if issue.Recommendation != "" {
					fmt.Fprintf(w, "      %s: %s\n", msgs.Recommendation, color.GreenString(issue.Recommendation))
				}
				if issue.CodeSnippet != "" {
					fmt.Fprintf(w, "      %s: %s\n", msgs.DetectedCode, color.YellowString(issue.CodeSnippet))
				}
				if issue.Fixable() {
					fmt.Fprintf(w, "      %s\n", color.HiBlackString("🔧 auto-fix available: --fix %s/%s", mod.Module.Slug(), issue.ID))
				}
				fmt.Fprintln(w)
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "📊 %s: ", msgs.AverageScore)
	scoreColor(audit.Summary.AverageScore).Fprintf(w, "%d", audit.Summary.AverageScore)
	fmt.Fprintf(w, "   %s: %d   %s: %d   %s: %d\n",
		msgs.CompletedLabel, audit.Summary.Modules,
		msgs.IssuesLabel, audit.Summary.TotalIssues,
		msgs.CriticalLabel, audit.Summary.CriticalIssues)
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func getSeverityColor(severity model.Severity) *color.Color {
	switch severity {
	case model.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityHigh:
		return color.New(color.FgRed)
	case model.SeverityMedium:
		return color.New(color.FgYellow)
	case model.SeverityLow:
		return color.New(color.FgBlue)
	case model.SeverityPassed:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

func getSeverityIcon(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "🔴"
	case model.SeverityHigh:
		return "🟠"
	case model.SeverityMedium:
		return "🟡"
	case model.SeverityLow:
		return "🔵"
	case model.SeverityPassed:
		return "🟢"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
