package tools

import (
	"errors"
	"fmt"
)

// Tool-level failure taxonomy. All of these are folded back into the
// conversation as tool-result text; none of them aborts a turn.
var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrDuplicateEntity = errors.New("duplicate entity")
)

// ValidationError reports bad input to a tool call: a missing required
// parameter, a malformed value, or a wrong type.
type ValidationError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %q parameter for %s: %s", e.Param, e.Tool, e.Reason)
}

// BackendError reports a datastore failure that is neither a validation
// problem nor a duplicate: a missing referenced entity or a propagated
// query failure after the fallback was not applicable.
type BackendError struct {
	Tool string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error in %s: %v", e.Tool, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
