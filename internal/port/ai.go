package port

import "context"

// Completer abstracts the generative text model: prompt in, text out.
// Implementations can target OpenAI or any compatible chat-completions API.
type Completer interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete sends a single user-role prompt and returns the first
	// completion's text. An empty completion is returned as "" without error.
	Complete(ctx context.Context, prompt string) (string, error)
}
