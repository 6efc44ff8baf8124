package services

import (
	"context"
	"fmt"

	"github.com/planmate/planmate-backend/internal/logger"
)

// SagaStep pairs a forward action with the compensation that undoes it.
// Compensate may be nil for steps that need no undo.
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// RunSaga executes steps in order. When a step fails, the compensations of
// every previously completed step run in reverse order; compensation errors
// are logged and skipped so the remaining undo work still happens. The
// original step error is returned to the caller.
func RunSaga(ctx context.Context, log *logger.Logger, steps []SagaStep) error {
	completed := make([]SagaStep, 0, len(steps))
	for _, step := range steps {
		if step.Run == nil {
			continue
		}
		if err := step.Run(ctx); err != nil {
			log.Warn("saga step failed, compensating", "step", step.Name, "completed", len(completed), "error", err)
			for i := len(completed) - 1; i >= 0; i-- {
				prev := completed[i]
				if prev.Compensate == nil {
					continue
				}
				if compErr := prev.Compensate(ctx); compErr != nil {
					log.Warn("saga compensation failed", "step", prev.Name, "error", compErr)
				}
			}
			return fmt.Errorf("saga step %q: %w", step.Name, err)
		}
		completed = append(completed, step)
	}
	return nil
}
