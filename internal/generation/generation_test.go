package generation_test

import (
	"context"
	"testing"

	"github.com/prepmate/prepmate-api/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestDisabled(t *testing.T) {
	t.Parallel()
	var g generation.Disabled

	out, err := g.Generate(context.Background(), "prompt")
	assert.Empty(t, out)
	assert.ErrorIs(t, err, generation.ErrDisabled)

	text, err := g.ExtractText(context.Background(), "https://example.com/q.png")
	assert.Empty(t, text)
	assert.ErrorIs(t, err, generation.ErrDisabled)
}
