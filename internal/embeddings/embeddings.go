// Package embeddings defines the embedding provider abstraction. The
// store treats embeddings as opaque fixed-length vectors; providers
// are constructed explicitly by the runtime and passed to whatever
// needs them — there is no process-global model manager.
package embeddings

import "context"

// Provider produces vector representations for text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the fixed vector length this provider emits.
	Dimensions() int
}
