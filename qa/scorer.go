package qa

import (
	"context"
)

// ScorePair holds per-position start and end logits for one scored
// ModelInput. Both slices have exactly one value per input position, in the
// same order as the ModelInput's positions.
type ScorePair struct {
	Start []float64
	End   []float64
}

// Scorer is the boundary to the neural scoring model. Implementations may be
// a local model, a remote inference service, or a test stub; the engine
// treats them as an opaque batch-in/batch-out call.
//
// Score must return exactly one ScorePair per ModelInput, shape-aligned 1:1
// with the input positions. A Scorer must not retain or mutate the batch.
// Errors are fatal for the whole batch; the engine performs no retry.
type Scorer interface {
	Score(ctx context.Context, batch []ModelInput) ([]ScorePair, error)

	// Close releases any resources held by the scorer.
	Close() error
}

// ScorerFunc adapts a plain function to the Scorer interface. Useful for
// stubs and tests.
type ScorerFunc func(ctx context.Context, batch []ModelInput) ([]ScorePair, error)

// Score implements Scorer.
func (f ScorerFunc) Score(ctx context.Context, batch []ModelInput) ([]ScorePair, error) {
	return f(ctx, batch)
}

// Close implements Scorer. It is a no-op.
func (f ScorerFunc) Close() error { return nil }
