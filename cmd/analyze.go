package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/dashboard"
	"github.com/helmcode/seo-ai/pkg/formatter"
	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
)

var (
	analyzeModules      []string
	analyzeAllModules   bool
	analyzeOutputFormat string
	analyzeReportPath   string
	analyzeFixes        []string
	analyzeLLM          llmFlags
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze DOMAIN",
		Short: "Run an AI SEO audit of a domain",
		Long: `Analyze a domain with AI across the SEO modules. On-Page SEO is always
analyzed first; further modules run concurrently.

Examples:
  # On-Page audit
  seo-ai analyze example.com

  # Add technical and local SEO
  seo-ai analyze example.com -m technical -m local

  # Every module, HTML report in the current directory
  seo-ai analyze example.com --all --report .

  # Generate a fix for an issue found by the on-page module
  seo-ai analyze example.com --fix on-page/3

  # Machine-readable output in Turkish
  seo-ai analyze example.com --all -o json --language tr`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringSliceVarP(&analyzeModules, "module", "m", []string{}, "Additional modules to analyze (on-page, off-page, technical, content, black-hat, local)")
	cmd.Flags().BoolVar(&analyzeAllModules, "all", false, "Analyze every module")
	cmd.Flags().StringVarP(&analyzeOutputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&analyzeReportPath, "report", "", "Write an HTML report to this file or directory")
	cmd.Flags().StringSliceVar(&analyzeFixes, "fix", []string{}, "Generate a fix for MODULE/ISSUE_ID")
	analyzeLLM.register(cmd)

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(analyzeLLM)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	modules, err := selectedModules()
	if err != nil {
		return err
	}
	fixes, err := parseFixTargets(analyzeFixes)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, backend, err := newAnalyzer(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	msgs := a.Messages()

	domain, err := dashboard.NormalizeDomain(args[0])
	if err != nil {
		return err
	}
	printHeader(domain, modules, msgs)
	printLLMInfo(cfg.LLM.Provider, backend)
	fmt.Fprintln(os.Stderr)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	ctrl := dashboard.New(a, dashboard.Options{
		StepDelay: cfg.Analysis.StepDelay,
		Logger:    logger,
		OnProgress: func(e dashboard.ProgressEvent) {
			s.Lock()
			s.Suffix = fmt.Sprintf(" [%s] %s", msgs.ModuleTitle(e.Module), e.Step)
			s.Unlock()
		},
	})
	defer ctrl.Close()

	s.Start()
	jobs, err := startJobs(ctrl, domain, modules)
	if err != nil {
		s.Stop()
		return err
	}
	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-ctx.Done():
			s.Stop()
			return fmt.Errorf("analysis interrupted: %w", ctx.Err())
		}
	}
	s.Stop()

	view := ctrl.Snapshot()
	for _, m := range modules {
		r := view.Results[m]
		if r == nil {
			printError(fmt.Sprintf("%s: no result", msgs.ModuleTitle(m)))
			continue
		}
		printSuccess(fmt.Sprintf("%s: %d/100", msgs.ModuleTitle(m), r.Score))
	}

	audit := formatter.NewAudit(view.Domain, view.Results, msgs)
	if err := formatter.DisplayResults(os.Stdout, audit, msgs, analyzeOutputFormat); err != nil {
		return err
	}

	for _, target := range fixes {
		if err := runFix(ctx, ctrl, target, s); err != nil {
			return err
		}
	}

	if analyzeReportPath != "" {
		path, err := writeReport(ctrl, cfg.Locale(), analyzeReportPath)
		if err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Report written to %s", path))
		logger.Info("Report written", zap.String("path", path))
	}
	return nil
}

func selectedModules() ([]model.Module, error) {
	if analyzeAllModules {
		return model.Modules(), nil
	}
	wanted := map[model.Module]bool{model.DefaultModule: true}
	for _, name := range analyzeModules {
		m, err := model.ParseModule(name)
		if err != nil {
			return nil, err
		}
		wanted[m] = true
	}
	var modules []model.Module
	for _, m := range model.Modules() {
		if wanted[m] {
			modules = append(modules, m)
		}
	}
	return modules, nil
}

// startJobs submits the domain, which analyzes the default module, then
// selects every other module so their pipelines run concurrently.
func startJobs(ctrl *dashboard.Controller, domain string, modules []model.Module) ([]*dashboard.Job, error) {
	first, err := ctrl.Submit(domain)
	if err != nil {
		return nil, err
	}
	jobs := []*dashboard.Job{first}
	for _, m := range modules {
		if m == model.DefaultModule {
			continue
		}
		job, err := ctrl.Select(m)
		if err != nil {
			return nil, err
		}
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

type fixTarget struct {
	module  model.Module
	issueID string
}

func parseFixTargets(values []string) ([]fixTarget, error) {
	targets := make([]fixTarget, 0, len(values))
	for _, v := range values {
		mod, id, ok := strings.Cut(v, "/")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --fix %q: expected MODULE/ISSUE_ID", v)
		}
		m, err := model.ParseModule(mod)
		if err != nil {
			return nil, fmt.Errorf("invalid --fix %q: %w", v, err)
		}
		targets = append(targets, fixTarget{module: m, issueID: id})
	}
	return targets, nil
}

func runFix(ctx context.Context, ctrl *dashboard.Controller, target fixTarget, s *spinner.Spinner) error {
	s.Suffix = fmt.Sprintf(" Generating fix for %s/%s...", target.module.Slug(), target.issueID)
	s.Start()
	fix, err := ctrl.Fix(ctx, target.module, target.issueID)
	s.Stop()

	switch {
	case errors.Is(err, dashboard.ErrNotFixable),
		errors.Is(err, dashboard.ErrIssueNotFound),
		errors.Is(err, dashboard.ErrModuleNotReady):
		printError(err.Error())
		return nil
	case err != nil:
		return err
	}

	result, _ := ctrl.Snapshot().Results[target.module].Issue(target.issueID)
	return formatter.DisplayFix(os.Stdout, result, fix, analyzeOutputFormat)
}

// writeReport writes to path, or into path when it is a directory.
func writeReport(ctrl *dashboard.Controller, lang locale.Locale, path string) (string, error) {
	doc, name, err := ctrl.Report(lang)
	if err != nil {
		return "", fmt.Errorf("failed to build report: %w", err)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func printHeader(domain string, modules []model.Module, msgs *locale.Messages) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(os.Stderr)
	cyan.Fprintln(os.Stderr, "🔍 SEO AI Audit")
	fmt.Fprintf(os.Stderr, "🌐 Domain: %s\n", domain)

	titles := make([]string, len(modules))
	for i, m := range modules {
		titles[i] = msgs.ModuleTitle(m)
	}
	fmt.Fprintf(os.Stderr, "📊 Modules: %s\n", strings.Join(titles, ", "))
	fmt.Fprintf(os.Stderr, "🗣  Language: %s\n", msgs.Language)
}
