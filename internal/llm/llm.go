package llm

import (
	"context"
	"errors"
)

// Client abstracts text-generation providers. Output is untrusted free text;
// structured consumers must re-validate whatever comes back.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest captures a single text-generation call.
type GenerateRequest struct {
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
}

// ErrEmptyResponse is returned when a provider produces no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")
