package infra

import (
	"context"
	"errors"
	"slices"
)

// Teardown undoes the creation of a single resource.
type Teardown func(ctx context.Context) error

// Stack accumulates teardowns during provisioning so a partial bring-up can
// be unwound in reverse creation order.
type Stack struct {
	teardowns []Teardown
}

func (s *Stack) Push(t Teardown) {
	s.teardowns = append(s.teardowns, t)
}

// Unwind runs all accumulated teardowns newest-first, joining every error
// encountered along the way.
func (s *Stack) Unwind(ctx context.Context) error {
	var errs error
	for _, t := range slices.Backward(s.teardowns) {
		errs = errors.Join(errs, t(ctx))
	}
	s.teardowns = nil
	return errs
}
