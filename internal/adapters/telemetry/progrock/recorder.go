// Package progrock provides the Progrock implementation of the progress reporter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/grip/internal/core/ports"
)

// Recorder implements ports.Reporter using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

var _ ports.Reporter = (*Recorder)(nil)

// StartStep records a new vertex for one transaction step.
func (r *Recorder) StartStep(ctx context.Context, name string) (context.Context, ports.Step) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	return ctx, &Step{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
