package generation

import "context"

// Generator defines the boundary between the application core and an
// external language model. Prompts are built by the caller; the generator
// only transports them and returns the model's text.
type Generator interface {
	// Generate sends prompt to the model and returns its text output.
	//
	// Errors wrap one of the sentinels in errors.go so callers can tell a
	// blocked prompt from a transient outage.
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextExtractor reads the text contained in an image.
type TextExtractor interface {
	// ExtractText downloads the image at imageURL and returns its text,
	// trimmed of surrounding whitespace.
	ExtractText(ctx context.Context, imageURL string) (string, error)
}
