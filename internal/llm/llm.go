// Package llm provides the generative text backend used by the insight
// generator. One implementation (Anthropic) is provided; callers treat any
// failure as a cue to fall back to deterministic templates, so no retry or
// routing logic lives here.
package llm

import (
	"context"
	"errors"
)

// Common errors returned by generation backends.
var (
	ErrNoAPIKey     = errors.New("llm: API key not configured")
	ErrRateLimit    = errors.New("llm: rate limit exceeded")
	ErrProviderDown = errors.New("llm: provider unavailable")
	ErrEmptyResult  = errors.New("llm: empty completion")
)

// GenerateOptions configures a single generation request.
type GenerateOptions struct {
	Model     string
	MaxTokens int
}

// Provider is the interface a generative text backend must implement.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Generate sends one prompt and returns the completion text.
	Generate(ctx context.Context, system, prompt string, opts GenerateOptions) (string, error)
}
