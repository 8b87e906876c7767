// Package telemetry provides progress reporting adapters.
package telemetry

import (
	"context"

	"go.trai.ch/grip/internal/core/ports"
)

// NoOpReporter is a no-op implementation of ports.Reporter.
type NoOpReporter struct{}

// NewNoOpReporter creates a new NoOpReporter.
func NewNoOpReporter() *NoOpReporter {
	return &NoOpReporter{}
}

// StartStep returns a no-op step.
func (r *NoOpReporter) StartStep(ctx context.Context, _ string) (context.Context, ports.Step) {
	return ctx, &NoOpStep{}
}

// NoOpStep is a no-op implementation of ports.Step.
type NoOpStep struct{}

// Log does nothing.
func (s *NoOpStep) Log(_ string) {}

// Complete does nothing.
func (s *NoOpStep) Complete(_ error) {}
