// Package provider abstracts the LLM backends used to generate answers.
package provider

import (
	"context"
	"errors"
	"time"

	gemini "github.com/moin143264/UrlChatbotBackend/provider/gemini"
)

// Client represents different LLM providers
type Client string

const (
	Gemini Client = "gemini"
)

// ErrQuotaExceeded marks a daily-quota rejection from the backend. Callers
// show a friendly retry message instead of an error page.
var ErrQuotaExceeded = gemini.ErrQuotaExceeded

// Provider is the interface all LLM implementations satisfy.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options carries the backend-independent knobs.
type Options struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewProvider creates an LLM client for the configured backend.
func NewProvider(client Client, opts Options) (Provider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("provider: API key not set")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	switch client {
	case Gemini:
		model := opts.Model
		if model == "" {
			model = "gemini-1.5-flash"
		}
		return gemini.NewClient(opts.APIKey, model, opts.Temperature, opts.MaxTokens, opts.Timeout), nil
	default:
		return nil, errors.New("provider: unsupported LLM provider")
	}
}
