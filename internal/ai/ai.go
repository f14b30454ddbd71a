// Package ai defines the text-generation and embedding backend interfaces
// and their implementations.
//
// The backend is an external collaborator with uncertain availability: every
// caller must tolerate ErrBackendUnavailable and degrade, never abort a
// batch because the model server is down.
package ai

import (
	"context"
	"errors"
)

// ErrBackendUnavailable indicates the backend could not be reached or timed
// out. AI-dependent enhancements degrade gracefully on this error.
var ErrBackendUnavailable = errors.New("ai backend unavailable")

// Generator produces a free-text completion for a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Embedder maps text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Noop implements both interfaces by reporting the backend unavailable.
// It is the fallback when no API key is configured, and keeps the core
// pipeline fully testable without a live model server.
type Noop struct{}

var (
	_ Generator = Noop{}
	_ Embedder  = Noop{}
)

// GenerateText always fails with ErrBackendUnavailable.
func (Noop) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", ErrBackendUnavailable
}

// Embed always fails with ErrBackendUnavailable.
func (Noop) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrBackendUnavailable
}
