package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/llm"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/prompts"
)

// RunFix requests a remediation for one issue. Callers must only pass
// fixable issues (see model.Issue.Fixable).
func (a *Analyzer) RunFix(ctx context.Context, issue model.Issue, domain string) (*model.FixResult, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	var fix model.FixResult
	err := a.llm.Complete(ctx, llm.Request{
		SystemInstruction: prompts.SystemInstruction(a.messages.Language),
		Prompt:            prompts.BuildFixPrompt(issue, domain, a.messages.Unspecified),
		Schema:            FixSchema,
	}, &fix)
	if err != nil {
		return nil, fmt.Errorf("fix %q: %w", issue.ID, err)
	}
	return &fix, nil
}

// Fix never fails: on error it returns a localized placeholder.
func (a *Analyzer) Fix(ctx context.Context, issue model.Issue, domain string) *model.FixResult {
	fix, err := a.RunFix(ctx, issue, domain)
	if a.recorder != nil {
		a.recorder.ObserveFix(err != nil)
	}
	if err != nil {
		a.logger.Warn("Fix generation failed", zap.String("issue", issue.ID), zap.Error(err))
		return &model.FixResult{
			Explanation: a.messages.FixUnavailable,
			FixedCode:   a.messages.FixPlaceholder,
		}
	}
	return fix
}
