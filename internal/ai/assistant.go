package ai

import "context"

// Transcriber turns a PDF document into plain text by looking at the rendered
// pages. Implementations are OCR engines or multimodal models.
type Transcriber interface {
	Name() string
	// Available reports whether the backend can be used in this runtime.
	Available() bool
	Transcribe(ctx context.Context, pdf []byte) (string, error)
}
