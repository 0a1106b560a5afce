package generation

import "context"

// Disabled satisfies Generator and TextExtractor when no model is configured.
// Every call fails with ErrDisabled.
type Disabled struct{}

var (
	_ Generator     = Disabled{}
	_ TextExtractor = Disabled{}
)

// Generate implements Generator.
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// ExtractText implements TextExtractor.
func (Disabled) ExtractText(context.Context, string) (string, error) {
	return "", ErrDisabled
}
