package progrock

import (
	"fmt"

	"github.com/vito/progrock"
)

// Step implements ports.Step wrapping *progrock.VertexRecorder.
type Step struct {
	vertex *progrock.VertexRecorder
}

// Log records a message associated with this step.
func (s *Step) Log(msg string) {
	_, _ = fmt.Fprintln(s.vertex.Stdout(), msg)
}

// Complete marks the step as finished, successfully or with an error.
func (s *Step) Complete(err error) {
	s.vertex.Done(err)
}
