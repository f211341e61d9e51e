package llm

import "context"

// LLM is a single hosted completion backend.
type LLM interface {
	// Generate submits the request and returns the raw text payload.
	Generate(ctx context.Context, req Request) (string, error)
	// GetModel returns the model identifier used for requests.
	GetModel() string
}

// Request is one structured completion call.
type Request struct {
	SystemInstruction string
	Prompt            string
	// Schema describes the JSON object the payload must match. Nil means
	// any JSON object is accepted.
	Schema *Schema
}
