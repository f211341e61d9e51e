package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/helmcode/seo-ai/pkg/analyzer"
	"github.com/helmcode/seo-ai/pkg/llm"
	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/report"
	"github.com/helmcode/seo-ai/pkg/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubCompleter answers analysis and fix requests with canned values. When
// gate is set, each call signals entered and blocks until gate closes or
// the context is cancelled.
type stubCompleter struct {
	calls   atomic.Int32
	gate    chan struct{}
	entered chan struct{}
	prompts sync.Map
}

func (s *stubCompleter) Complete(ctx context.Context, req llm.Request, out any) error {
	n := s.calls.Add(1)
	s.prompts.Store(n, req.Prompt)
	if s.gate != nil {
		s.entered <- struct{}{}
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	switch v := out.(type) {
	case *model.AnalysisResult:
		*v = model.AnalysisResult{
			Score:   72,
			Summary: "Solid basics.",
			Issues: []model.Issue{
				{ID: "1", Title: "Missing meta description", Severity: model.SeverityHigh, CanAutoFix: true},
				{ID: "2", Title: "Canonical present", Severity: model.SeverityPassed, CanAutoFix: true},
				{ID: "3", Title: "Thin content", Severity: model.SeverityMedium},
			},
		}
	case *model.FixResult:
		*v = model.FixResult{Explanation: "Add a description.", FixedCode: `<meta name="description" content="...">`}
	}
	return nil
}

func newGated() *stubCompleter {
	return &stubCompleter{gate: make(chan struct{}), entered: make(chan struct{}, 8)}
}

func newController(c analyzer.Completer, opts Options) *Controller {
	return New(analyzer.New(c, locale.English, nil), opts)
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{in: "  Shop.Example  ", want: "https://shop.example"},
		{in: "http://shop.example", want: "http://shop.example"},
		{in: "HTTPS://Shop.Example/path", want: "https://shop.example/path"},
		{in: "   ", err: ErrNoDomain},
		{in: "", err: ErrNoDomain},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDomain(tt.in)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitAnalyzesDefaultModule(t *testing.T) {
	stub := &stubCompleter{}
	var events []ProgressEvent
	var mu sync.Mutex
	c := newController(stub, Options{OnProgress: func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}})
	defer c.Close()

	job, err := c.Submit("shop.example")
	require.NoError(t, err)
	assert.Equal(t, model.ModuleOnPage, job.Ticket.Module)
	assert.True(t, job.Committed())

	view := c.Snapshot()
	assert.Equal(t, "https://shop.example", view.Domain)
	assert.Equal(t, session.StateReady, view.State)
	assert.Equal(t, 72, view.Active().Score)
	assert.Empty(t, view.Steps, "steps cleared once the pipeline ends")
	assert.Equal(t, int32(1), stub.calls.Load())

	prompt, _ := stub.prompts.Load(int32(1))
	assert.Contains(t, prompt, "https://shop.example")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 6)
	assert.Contains(t, events[0].Step, "https://shop.example")
	assert.Equal(t, 5, events[5].Index)
	assert.Equal(t, 6, events[5].Total)
}

func TestSubmitRejectsBlankDomain(t *testing.T) {
	stub := &stubCompleter{}
	c := newController(stub, Options{})
	defer c.Close()

	job, err := c.Submit("   ")
	assert.True(t, errors.Is(err, ErrNoDomain))
	assert.Nil(t, job)
	assert.Equal(t, session.StateNoDomain, c.Snapshot().State)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestSelectBeforeSubmit(t *testing.T) {
	c := newController(&stubCompleter{}, Options{})
	defer c.Close()

	job, err := c.Select(model.ModuleLocal)
	assert.True(t, errors.Is(err, ErrNoDomain))
	assert.Nil(t, job)
}

func TestSelectCachedModuleMakesNoCall(t *testing.T) {
	stub := &stubCompleter{}
	c := newController(stub, Options{})
	defer c.Close()

	job, err := c.Submit("shop.example")
	require.NoError(t, err)
	job.Wait()

	job, err = c.Select(model.ModuleTechnical)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.True(t, job.Committed())
	assert.Equal(t, int32(2), stub.calls.Load())

	job, err = c.Select(model.ModuleOnPage)
	require.NoError(t, err)
	assert.Nil(t, job, "cached module needs no analysis")
	assert.Equal(t, int32(2), stub.calls.Load())

	view := c.Snapshot()
	assert.Equal(t, model.ModuleOnPage, view.ActiveModule)
	assert.Equal(t, session.StateReady, view.State)
	assert.Equal(t, 2, view.Completed())
	assert.Equal(t, 33, view.Progress())
}

func TestResetDuringProgressSkipsNetwork(t *testing.T) {
	stub := &stubCompleter{}
	c := newController(stub, Options{StepDelay: time.Hour})
	defer c.Close()

	job, err := c.Submit("shop.example")
	require.NoError(t, err)
	c.Reset()

	assert.False(t, job.Committed())
	assert.Equal(t, int32(0), stub.calls.Load())

	view := c.Snapshot()
	assert.Equal(t, session.StateNoDomain, view.State)
	assert.Empty(t, view.Results)
	assert.Empty(t, view.Steps)
}

func TestResetDiscardsLateCompletion(t *testing.T) {
	stub := newGated()
	c := newController(stub, Options{})
	defer c.Close()

	job, err := c.Submit("shop.example")
	require.NoError(t, err)
	<-stub.entered

	c.Reset()
	close(stub.gate)

	assert.False(t, job.Committed())
	view := c.Snapshot()
	assert.Equal(t, session.StateNoDomain, view.State)
	assert.Empty(t, view.Results)
}

func TestNewDomainSupersedesPreviousRun(t *testing.T) {
	stub := newGated()
	c := newController(stub, Options{})
	defer c.Close()

	first, err := c.Submit("old.example")
	require.NoError(t, err)
	<-stub.entered

	second, err := c.Submit("new.example")
	require.NoError(t, err)
	<-stub.entered
	close(stub.gate)

	assert.False(t, first.Committed())
	assert.True(t, second.Committed())

	view := c.Snapshot()
	assert.Equal(t, "https://new.example", view.Domain)
	assert.Len(t, view.Results, 1)
}

func TestSnapshotShowsRunningStep(t *testing.T) {
	c := newController(&stubCompleter{}, Options{StepDelay: time.Hour})
	defer c.Close()

	_, err := c.Submit("shop.example")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return c.Snapshot().Steps[model.ModuleOnPage] != ""
	}, time.Second, 5*time.Millisecond)

	view := c.Snapshot()
	assert.Equal(t, session.StateAnalyzing, view.State)
	assert.Equal(t, []model.Module{model.ModuleOnPage}, view.Pending)
	assert.True(t, strings.Contains(view.Steps[model.ModuleOnPage], "https://shop.example"))
}

func TestFix(t *testing.T) {
	stub := &stubCompleter{}
	c := newController(stub, Options{})
	defer c.Close()

	_, err := c.Fix(context.Background(), model.ModuleOnPage, "1")
	assert.True(t, errors.Is(err, ErrNoDomain))

	job, err := c.Submit("shop.example")
	require.NoError(t, err)
	job.Wait()
	before := stub.calls.Load()

	_, err = c.Fix(context.Background(), model.ModuleLocal, "1")
	assert.True(t, errors.Is(err, ErrModuleNotReady))

	_, err = c.Fix(context.Background(), model.ModuleOnPage, "missing")
	assert.True(t, errors.Is(err, ErrIssueNotFound))

	_, err = c.Fix(context.Background(), model.ModuleOnPage, "2")
	assert.True(t, errors.Is(err, ErrNotFixable), "passed checks are never fixable")

	_, err = c.Fix(context.Background(), model.ModuleOnPage, "3")
	assert.True(t, errors.Is(err, ErrNotFixable))
	assert.Equal(t, before, stub.calls.Load(), "rejected fixes make no call")

	fix, err := c.Fix(context.Background(), model.ModuleOnPage, "1")
	require.NoError(t, err)
	assert.Equal(t, "Add a description.", fix.Explanation)
	assert.Equal(t, before+1, stub.calls.Load())
}

func TestReport(t *testing.T) {
	stamp := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	c := newController(&stubCompleter{}, Options{Now: func() time.Time { return stamp }})
	defer c.Close()

	_, _, err := c.Report(locale.English)
	assert.True(t, errors.Is(err, report.ErrNoData))

	job, err := c.Submit("shop.example")
	require.NoError(t, err)
	job.Wait()

	doc, name, err := c.Report(locale.English)
	require.NoError(t, err)
	assert.Equal(t, "seo-report-https---shop-example-1792229400000.html", name)
	assert.Contains(t, string(doc), "Missing meta description")
}
