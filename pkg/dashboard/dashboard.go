// Package dashboard drives a session: it runs each module analysis as a
// cancelable pipeline (staged progress steps, then the completion call) and
// serves fix and report requests against the session's results.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/analyzer"
	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/report"
	"github.com/helmcode/seo-ai/pkg/session"
)

// DefaultStepDelay is the pause after each progress step.
const DefaultStepDelay = 400 * time.Millisecond

var (
	ErrNoDomain       = errors.New("no domain selected")
	ErrModuleNotReady = errors.New("module has no result yet")
	ErrIssueNotFound  = errors.New("issue not found")
	ErrNotFixable     = errors.New("issue cannot be fixed automatically")
)

// ProgressEvent reports one staged step of a module analysis.
type ProgressEvent struct {
	Module model.Module
	Step   string
	Index  int
	Total  int
}

type Options struct {
	StepDelay  time.Duration
	OnProgress func(ProgressEvent)
	Logger     *zap.Logger
	// Now stamps reports; defaults to time.Now.
	Now func() time.Time
}

type Controller struct {
	session  *session.Session
	analyzer *analyzer.Analyzer
	logger   *zap.Logger

	stepDelay  time.Duration
	onProgress func(ProgressEvent)
	now        func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	steps  map[model.Module]step
	wg     sync.WaitGroup
}

// step is the progress text last shown by a module's pipeline.
type step struct {
	ticket session.Ticket
	text   string
}

func New(a *analyzer.Analyzer, opts Options) *Controller {
	c := &Controller{
		session:    session.New(),
		analyzer:   a,
		logger:     opts.Logger,
		stepDelay:  opts.StepDelay,
		onProgress: opts.OnProgress,
		now:        opts.Now,
		steps:      map[model.Module]step{},
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Job is one running analysis pipeline.
type Job struct {
	Ticket    session.Ticket
	done      chan struct{}
	committed bool
}

// Wait blocks until the pipeline finished or was cancelled.
func (j *Job) Wait() {
	<-j.done
}

// Done is closed when the pipeline ends.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Committed reports whether the pipeline's result was stored. Valid after Wait.
func (j *Job) Committed() bool {
	<-j.done
	return j.committed
}

// Submit starts a new session for domain and analyzes the default module.
// Pipelines of the previous domain are cancelled.
func (c *Controller) Submit(domain string) (*Job, error) {
	normalized, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.restart()
	ticket, err := c.session.StartAnalysis(normalized)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Analysis session started", zap.String("domain", normalized))
	return c.launch(ticket), nil
}

// Select activates module m. It returns nil when the module is already
// cached and no analysis is needed.
func (c *Controller) Select(m model.Module) (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticket, needed, err := c.session.SelectModule(m)
	if err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			return nil, ErrNoDomain
		}
		return nil, err
	}
	if !needed {
		c.logger.Debug("Module served from cache", zap.String("module", string(m)))
		return nil, nil
	}
	return c.launch(ticket), nil
}

// Reset drops the domain and all results, cancelling in-flight pipelines.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.restart()
	c.session.Reset()
	c.logger.Info("Analysis session reset")
}

// Close cancels every pipeline and waits for them to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
}

// restart cancels the current generation's pipelines. Callers hold c.mu.
func (c *Controller) restart() {
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.steps = map[model.Module]step{}
}

// launch starts a pipeline for ticket. Callers hold c.mu.
func (c *Controller) launch(ticket session.Ticket) *Job {
	job := &Job{Ticket: ticket, done: make(chan struct{})}
	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(job.done)
		job.committed = c.run(ctx, ticket)
	}()
	return job
}

func (c *Controller) run(ctx context.Context, ticket session.Ticket) bool {
	logger := c.logger.With(zap.String("module", string(ticket.Module)), zap.String("domain", ticket.Domain))
	defer c.clearStep(ticket)

	steps := c.analyzer.Messages().Steps(ticket.Domain)
	for i, text := range steps {
		c.setStep(ctx, ticket, text)
		if c.onProgress != nil {
			c.onProgress(ProgressEvent{Module: ticket.Module, Step: text, Index: i, Total: len(steps)})
		}
		if !c.sleep(ctx) {
			logger.Debug("Analysis cancelled during progress steps")
			return false
		}
	}

	// A request superseded while its progress steps ran is dropped before
	// it reaches the network.
	if !c.session.Current(ticket) {
		logger.Debug("Analysis superseded before completion call")
		return false
	}

	result := c.analyzer.Analyze(ctx, ticket.Module, ticket.Domain)
	if ctx.Err() != nil {
		logger.Debug("Analysis cancelled, discarding result")
		return false
	}

	committed, err := c.session.Complete(ticket, result)
	if err != nil {
		logger.Error("Failed to store analysis result", zap.Error(err))
		return false
	}
	if !committed {
		logger.Debug("Stale analysis result discarded")
	}
	return committed
}

func (c *Controller) sleep(ctx context.Context) bool {
	if c.stepDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(c.stepDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Controller) setStep(ctx context.Context, ticket session.Ticket, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() == nil {
		c.steps[ticket.Module] = step{ticket: ticket, text: text}
	}
}

func (c *Controller) clearStep(ticket session.Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.steps[ticket.Module].ticket == ticket {
		delete(c.steps, ticket.Module)
	}
}

// View is what a renderer needs: the session plus live progress text.
type View struct {
	session.Snapshot
	Steps map[model.Module]string `json:"steps"`
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{Snapshot: c.session.Snapshot(), Steps: make(map[model.Module]string, len(c.steps))}
	for m, s := range c.steps {
		v.Steps[m] = s.text
	}
	return v
}

// Fix requests a fix for one issue of a completed module. Issues that are
// not fixable are rejected before any completion call.
func (c *Controller) Fix(ctx context.Context, m model.Module, issueID string) (*model.FixResult, error) {
	snap := c.session.Snapshot()
	if snap.Domain == "" {
		return nil, ErrNoDomain
	}
	result, ok := snap.Results[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotReady, m)
	}
	issue, ok := result.Issue(issueID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrIssueNotFound, m, issueID)
	}
	if !issue.Fixable() {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFixable, m, issueID)
	}
	return c.analyzer.Fix(ctx, issue, snap.Domain), nil
}

// Report renders the HTML report of every completed module and its
// download filename.
func (c *Controller) Report(lang locale.Locale) ([]byte, string, error) {
	snap := c.session.Snapshot()
	now := c.now()
	doc, err := report.Build(snap.Domain, snap.Results, report.Options{Locale: lang, Now: now})
	if err != nil {
		return nil, "", err
	}
	return doc, report.Filename(snap.Domain, now), nil
}
