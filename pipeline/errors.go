package pipeline

import (
	"fmt"
	"strings"
)

// PreconditionError reports a stage that was asked to run without the
// frame-state keys it requires. It always indicates a badly assembled
// pipeline and is never recovered from.
type PreconditionError struct {
	Stage   string
	Missing []Key
}

func (e *PreconditionError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = k.String()
	}
	return fmt.Sprintf("stage '%s' requires frame state keys that are missing: %s", e.Stage, strings.Join(names, ", "))
}

// StageError wraps a failure returned by a stage's Run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage '%s': %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
