package mocks

import (
	"context"
	"sync"

	"github.com/prepmate/prepmate-api/internal/generation"
)

// MockGenerator implements generation.Generator and generation.TextExtractor
// for testing.
type MockGenerator struct {
	// GenerateFn overrides Generate when set.
	GenerateFn func(ctx context.Context, prompt string) (string, error)
	// ExtractTextFn overrides ExtractText when set.
	ExtractTextFn func(ctx context.Context, imageURL string) (string, error)

	// Default return values
	Reply         string
	ExtractedText string
	Err           error

	mu        sync.Mutex
	prompts   []string
	imageURLs []string
}

var (
	_ generation.Generator     = (*MockGenerator)(nil)
	_ generation.TextExtractor = (*MockGenerator)(nil)
)

// NewMockGeneratorWithReply creates a MockGenerator that answers every prompt
// with reply.
func NewMockGeneratorWithReply(reply string) *MockGenerator {
	return &MockGenerator{Reply: reply}
}

// NewMockGeneratorWithError creates a MockGenerator that fails every call.
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// Generate implements generation.Generator.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return m.Reply, m.Err
}

// ExtractText implements generation.TextExtractor.
func (m *MockGenerator) ExtractText(ctx context.Context, imageURL string) (string, error) {
	m.mu.Lock()
	m.imageURLs = append(m.imageURLs, imageURL)
	m.mu.Unlock()

	if m.ExtractTextFn != nil {
		return m.ExtractTextFn(ctx, imageURL)
	}
	return m.ExtractedText, m.Err
}

// Prompts returns the prompts passed to Generate so far.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// ImageURLs returns the URLs passed to ExtractText so far.
func (m *MockGenerator) ImageURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.imageURLs...)
}
