package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/llm"
	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/prompts"
)

var ErrEmptyDomain = errors.New("domain is empty")

// Completer is the part of llm.Client the orchestrators need.
type Completer interface {
	Complete(ctx context.Context, req llm.Request, out any) error
}

// Recorder counts analysis and fix outcomes.
type Recorder interface {
	ObserveAnalysis(module model.Module, failed bool)
	ObserveFix(failed bool)
}

type Analyzer struct {
	llm      Completer
	messages *locale.Messages
	logger   *zap.Logger
	recorder Recorder
}

func New(c Completer, lang locale.Locale, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{llm: c, messages: lang.Messages(), logger: logger}
}

// WithRecorder attaches an outcome recorder.
func (a *Analyzer) WithRecorder(r Recorder) *Analyzer {
	a.recorder = r
	return a
}

// Messages returns the string table the analyzer builds fallbacks from.
func (a *Analyzer) Messages() *locale.Messages {
	return a.messages
}

// Run performs one module analysis and reports failure explicitly.
func (a *Analyzer) Run(ctx context.Context, module model.Module, domain string) model.Outcome {
	outcome := model.Outcome{Module: module}

	domain = strings.TrimSpace(domain)
	if domain == "" {
		outcome.Err = ErrEmptyDomain
		return outcome
	}
	prompt, err := prompts.TemplateFor(module, domain)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	var result model.AnalysisResult
	err = a.llm.Complete(ctx, llm.Request{
		SystemInstruction: prompts.SystemInstruction(a.messages.Language),
		Prompt:            prompt,
		Schema:            AnalysisSchema,
	}, &result)
	if err != nil {
		outcome.Err = fmt.Errorf("analyze %s: %w", module, err)
		return outcome
	}
	if result.Issues == nil {
		result.Issues = []model.Issue{}
	}
	outcome.Result = &result
	return outcome
}

// Analyze never fails: a failed analysis renders as a zero-score result
// with the localized connection error and no issues.
func (a *Analyzer) Analyze(ctx context.Context, module model.Module, domain string) *model.AnalysisResult {
	outcome := a.Run(ctx, module, domain)
	a.observeAnalysis(outcome)
	return outcome.ResultOr(a.Fallback())
}

// Fallback is the result shown when an analysis failed.
func (a *Analyzer) Fallback() *model.AnalysisResult {
	return &model.AnalysisResult{
		Score:   0,
		Summary: a.messages.ConnectionError,
		Issues:  []model.Issue{},
	}
}

func (a *Analyzer) observeAnalysis(outcome model.Outcome) {
	if outcome.Failed() {
		a.logger.Warn("Analysis failed, using fallback result",
			zap.String("module", string(outcome.Module)),
			zap.Error(outcome.Err))
	} else {
		a.logger.Info("Analysis complete",
			zap.String("module", string(outcome.Module)),
			zap.Int("score", outcome.Result.Score),
			zap.Int("issues", len(outcome.Result.Issues)))
	}
	if a.recorder != nil {
		a.recorder.ObserveAnalysis(outcome.Module, outcome.Failed())
	}
}
