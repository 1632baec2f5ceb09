package viewer

import "fmt"

// PreconditionError reports a loaded model that lacks the node the portal
// material is attached to.
type PreconditionError struct {
	Ref  string
	Node string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("model %s has no child named %q", e.Ref, e.Node)
}

// RenderFault is a draw failure. It stops the render loop.
type RenderFault struct {
	Frame uint64
	Err   error
}

func (e *RenderFault) Error() string {
	return fmt.Sprintf("render fault at frame %d: %v", e.Frame, e.Err)
}

func (e *RenderFault) Unwrap() error {
	return e.Err
}
