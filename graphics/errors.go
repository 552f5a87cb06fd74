package graphics

import (
	"fmt"
	"strings"
)

// MaxReportedErrors bounds how many pending API errors are collected before
// giving up.
const MaxReportedErrors = 10

// ConstructionError is a fatal failure while building windows, contexts,
// programs or pipelines.
type ConstructionError struct {
	Op  string
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// APIError holds the error codes the graphics API reported after a call.
type APIError struct {
	Codes []uint32
}

func (e *APIError) Error() string {
	names := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		names[i] = fmt.Sprintf("0x%04X %s", c, errorName(c))
	}
	return "OpenGL error has occurred: " + strings.Join(names, ", ")
}

func errorName(code uint32) string {
	switch code {
	case 0x0500:
		return "GL_INVALID_ENUM"
	case 0x0501:
		return "GL_INVALID_VALUE"
	case 0x0502:
		return "GL_INVALID_OPERATION"
	case 0x0503:
		return "GL_STACK_OVERFLOW"
	case 0x0504:
		return "GL_STACK_UNDERFLOW"
	case 0x0505:
		return "GL_OUT_OF_MEMORY"
	case 0x0506:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "unknown error"
	}
}

// CollectErrors drains next until it reports zero or MaxReportedErrors
// distinct codes have been seen. It returns nil when nothing was pending.
func CollectErrors(next func() uint32) error {
	var codes []uint32
	seen := make(map[uint32]bool)
	for i := 0; i < MaxReportedErrors; i++ {
		code := next()
		if code == 0 {
			break
		}
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return &APIError{Codes: codes}
}
