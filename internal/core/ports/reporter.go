package ports

import "context"

// Reporter records progress of transaction steps.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// StartStep begins a progress step, e.g. "install INITools-0.2".
	StartStep(ctx context.Context, name string) (context.Context, Step)
}

// Step is one unit of reported progress.
type Step interface {
	// Log records a message associated with this step.
	Log(msg string)
	// Complete marks the step finished, successfully or with an error.
	Complete(err error)
}
