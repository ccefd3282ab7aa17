package codegen

import (
	"fmt"

	"github.com/gogpu/ffshader/ir"
)

// ErrorKind categorizes generation errors.
type ErrorKind uint8

const (
	// ErrUnsupportedSemantic indicates a semantic placement that has no
	// binding in the target language.
	ErrUnsupportedSemantic ErrorKind = iota

	// ErrUnassignedOutput indicates an output with no assignment.
	ErrUnassignedOutput

	// ErrDependencyCycle indicates body statements that read each other's
	// targets, so no emission order exists.
	ErrDependencyCycle

	// ErrUnsupportedFlag indicates a generation flag the target cannot honor.
	ErrUnsupportedFlag

	// ErrInvalidProgram indicates a program that fails IR validation.
	ErrInvalidProgram

	// ErrUnsupportedExpression indicates an expression the target cannot
	// evaluate in the program's stage.
	ErrUnsupportedExpression
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedSemantic:
		return "UnsupportedSemantic"
	case ErrUnassignedOutput:
		return "UnassignedOutput"
	case ErrDependencyCycle:
		return "DependencyCycle"
	case ErrUnsupportedFlag:
		return "UnsupportedFlag"
	case ErrInvalidProgram:
		return "InvalidProgram"
	case ErrUnsupportedExpression:
		return "UnsupportedExpression"
	default:
		return "Unknown"
	}
}

// Error is a generation error. For a supported capability set it always
// indicates a defect in the builder or the generator.
type Error struct {
	Kind     ErrorKind
	Language string
	Stage    ir.Stage
	Message  string

	// Err is the underlying cause, if any (for example IR validation errors).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	lang := e.Language
	if lang == "" {
		lang = "codegen"
	}
	return fmt.Sprintf("%s %s (%s stage): %s", lang, e.Kind, e.Stage, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a generation error for a program of the given stage.
func NewError(lang string, stage ir.Stage, kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Language: lang,
		Stage:    stage,
		Message:  fmt.Sprintf(format, args...),
	}
}
