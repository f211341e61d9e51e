package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/analyzer"
	"github.com/helmcode/seo-ai/pkg/config"
	"github.com/helmcode/seo-ai/pkg/llm"
	"github.com/helmcode/seo-ai/pkg/logging"
)

var (
	configPath string
	verbose    bool
)

// AddPersistentFlags registers the flags every subcommand shares.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/seo-ai/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// llmFlags are the per-command overrides of the config file.
type llmFlags struct {
	provider  string
	model     string
	language  string
	stepDelay time.Duration
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider (gemini, openai, claude). Defaults to auto-detect from env")
	cmd.Flags().StringVar(&f.model, "model", "", "LLM model to use (overrides default)")
	cmd.Flags().StringVar(&f.language, "language", "", "Language of the analysis (en, tr)")
	cmd.Flags().DurationVar(&f.stepDelay, "step-delay", -1, "Pause after each progress step (default from config)")
}

// loadConfig reads the config file and environment, applies flag overrides
// and validates the result.
func loadConfig(f llmFlags) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if f.provider != "" {
		cfg.LLM.Provider = f.provider
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	if f.language != "" {
		cfg.Analysis.Language = f.language
	}
	if f.stepDelay >= 0 {
		cfg.Analysis.StepDelay = f.stepDelay
	}
	if err := cfg.Resolve(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, json bool) (*zap.Logger, error) {
	return logging.New(verbose || cfg.Logging.Debug, json)
}

// newAnalyzer wires provider, completion client and analyzer. Recorder may
// be nil.
func newAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger, recorder interface {
	llm.Recorder
	analyzer.Recorder
}) (*analyzer.Analyzer, llm.LLM, error) {
	provider, err := llm.ParseProvider(cfg.LLM.Provider)
	if err != nil {
		return nil, nil, err
	}
	backend, err := llm.NewFactory().CreateLLM(ctx, provider, cfg.LLMOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	opts := []llm.Option{llm.WithTimeout(cfg.LLM.Timeout), llm.WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, llm.WithRecorder(recorder))
	}
	a := analyzer.New(llm.NewClient(backend, opts...), cfg.Locale(), logger)
	if recorder != nil {
		a.WithRecorder(recorder)
	}
	return a, backend, nil
}

func printLLMInfo(provider string, l llm.LLM) {
	fmt.Fprintf(os.Stderr, "🤖 LLM: %s (%s)\n", provider, l.GetModel())
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}
