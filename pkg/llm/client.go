package llm

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 60 * time.Second

// Recorder receives one observation per completion call. outcome is "ok" or
// the FailureKind of the failed call.
type Recorder interface {
	ObserveCompletion(model, outcome string, elapsed time.Duration)
}

// Client validates payloads returned by an LLM backend. It never retries.
type Client struct {
	llm      LLM
	timeout  time.Duration
	logger   *zap.Logger
	recorder Recorder
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

func NewClient(l LLM, opts ...Option) *Client {
	c := &Client{
		llm:     l,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetModel() string {
	return c.llm.GetModel()
}

// Complete sends req and decodes the validated JSON payload into out.
// Any failure is returned as a *CompletionFailure.
func (c *Client) Complete(ctx context.Context, req Request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.complete(ctx, req, out)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		kind, _ := KindOf(err)
		outcome = string(kind)
		c.logger.Warn("Completion failed",
			zap.String("model", c.llm.GetModel()),
			zap.String("kind", outcome),
			zap.Duration("duration", elapsed),
			zap.Error(err))
	} else {
		c.logger.Debug("Completion succeeded",
			zap.String("model", c.llm.GetModel()),
			zap.Duration("duration", elapsed))
	}
	if c.recorder != nil {
		c.recorder.ObserveCompletion(c.llm.GetModel(), outcome, elapsed)
	}
	return err
}

func (c *Client) complete(ctx context.Context, req Request, out any) error {
	raw, err := c.llm.Generate(ctx, req)
	if err != nil {
		var failure *CompletionFailure
		if errors.As(err, &failure) {
			return failure
		}
		return &CompletionFailure{Kind: TransportError, Err: err}
	}

	payload := stripFences(raw)
	if payload == "" {
		return &CompletionFailure{Kind: EmptyResponse, Err: errors.New("empty payload")}
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return &CompletionFailure{Kind: SchemaMismatch, Err: err}
	}
	if _, ok := doc.(map[string]any); !ok {
		return &CompletionFailure{Kind: SchemaMismatch, Err: errors.New("payload is not a JSON object")}
	}
	if req.Schema != nil {
		if err := req.Schema.Validate(doc); err != nil {
			return &CompletionFailure{Kind: SchemaMismatch, Err: err}
		}
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return &CompletionFailure{Kind: SchemaMismatch, Err: err}
	}
	return nil
}

var openingFence = regexp.MustCompile("^```[a-zA-Z]*[ \t]*\r?\n?")

// stripFences removes one markdown fence pair wrapping the whole payload,
// such as ```json ... ```. Fences inside the payload are left alone.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = openingFence.ReplaceAllString(text, "")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
