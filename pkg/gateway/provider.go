package gateway

import "context"

// Roles in the provider-agnostic message format.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// FileRef is a non-image attachment passed to the model by URL.
type FileRef struct {
	URL  string
	Name string
}

// Message is one chat turn in a provider-agnostic format. Images and Files
// are only meaningful on user turns.
type Message struct {
	Role   string
	Text   string
	Images []string // fetchable image URLs
	Files  []FileRef
}

// Option allows for optional parameters like Temperature or MaxTokens.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Provider is the contract for the externally hosted model gateway.
type Provider interface {
	// ChatStream opens a streaming completion and invokes onDelta once per
	// incremental text fragment, in delivery order. An error returned from
	// onDelta aborts the stream.
	ChatStream(ctx context.Context, model string, history []Message, onDelta func(delta string) error, options ...Option) error

	// Generate runs a single non-streaming completion.
	Generate(ctx context.Context, model string, system string, prompt string, options ...Option) (string, error)
}
