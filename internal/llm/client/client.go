package llmclient

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse means the provider answered without any text content,
// e.g. every candidate was blocked or the candidate list was empty.
var ErrEmptyResponse = errors.New("llm: empty response from provider")

// Request is one structured-output call.
type Request struct {
	Prompt string
	// Schema constrains the JSON the provider returns. Nil means free-form JSON.
	Schema *genai.Schema
	// Grounded enables the provider's web search tool.
	Grounded bool
}

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	Name() string
	Close() error
	GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error)
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
