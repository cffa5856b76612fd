package enrich

import (
	"context"

	"go.uber.org/zap"
)

// Pipeline runs its steps in order over each item of a slice, one item at a
// time. Step errors are logged and counted but never stop the batch.
type Pipeline[T any] struct {
	steps []Named[T]
}

// NewPipeline constructs a Pipeline from the provided steps.
func NewPipeline[T any](steps ...Named[T]) *Pipeline[T] {
	return &Pipeline[T]{steps: steps}
}

// Process applies every step to every item and returns the number of step
// failures. It stops early, returning the context error, if ctx is cancelled.
func (p *Pipeline[T]) Process(ctx context.Context, items []T) (int, error) {
	failures := 0
	for i := range items {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		for _, step := range p.steps {
			if err := step.Run(ctx, &items[i]); err != nil {
				failures++
				zap.L().Warn("enrich step failed", zap.String("step", step.Name), zap.Int("index", i), zap.Error(err))
			}
		}
	}
	return failures, nil
}
