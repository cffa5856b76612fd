// Package enrich applies an ordered list of steps to every record of a batch.
package enrich

import (
	"context"
)

// Step mutates a single item in place. A step that fails returns an error;
// the pipeline logs it and moves on to the next step.
//
// Example:
//
//	func upperCity(ctx context.Context, r *models.CameraRecord) error { r.City = strings.ToUpper(r.City); return nil }
type Step[T any] func(ctx context.Context, item *T) error

// Named pairs a step with the name used when logging its failures.
type Named[T any] struct {
	Name string
	Run  Step[T]
}

// NewStep constructs a Named step.
func NewStep[T any](name string, run Step[T]) Named[T] {
	return Named[T]{Name: name, Run: run}
}
