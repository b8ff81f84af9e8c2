package img2line

import "fmt"

// InvalidInputError reports an input the pipeline cannot work on, such
// as a nil or zero-area image. The input is rejected before any stage
// runs.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input image: %s", e.Reason)
}

// InternalInvariantError reports a malformed intermediate state: a
// stage changing the image dimensions, or a finished image that is not
// strictly two-valued. It signals a bug in stage code, not a property
// of the input.
type InternalInvariantError struct {
	Stage  string
	Reason string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("pipeline invariant violated at %s: %s", e.Stage, e.Reason)
}
