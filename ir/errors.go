package ir

import "fmt"

// ErrorKind categorizes IR construction errors.
type ErrorKind uint8

const (
	// ErrTypeMismatch indicates operand types an operation cannot accept.
	ErrTypeMismatch ErrorKind = iota

	// ErrDuplicateSemantic indicates two inputs or two outputs bound to the
	// same semantic and index.
	ErrDuplicateSemantic

	// ErrInvalidSemantic indicates a missing semantic or an index on a
	// semantic that is not index-qualified.
	ErrInvalidSemantic

	// ErrDuplicateBinding indicates a reused uniform name or texture slot.
	ErrDuplicateBinding

	// ErrInvalidName indicates a uniform name that is not an identifier.
	ErrInvalidName

	// ErrUnassignedRead indicates an output or temporary read before it was
	// assigned.
	ErrUnassignedRead

	// ErrDuplicateAssignment indicates a second assignment to an lvalue.
	ErrDuplicateAssignment

	// ErrUnassignedOutput indicates an output with no assignment.
	ErrUnassignedOutput

	// ErrNotAssignable indicates an assignment to an input, uniform or
	// texture.
	ErrNotAssignable

	// ErrInvalidSwizzle indicates a malformed or out-of-range swizzle.
	ErrInvalidSwizzle

	// ErrInvalidHandle indicates an expression or symbol reference that does
	// not exist, or an operand that does not precede its user.
	ErrInvalidHandle

	// ErrFinished indicates use of a builder after Finish.
	ErrFinished

	// ErrInvalidConstant indicates an infinite or NaN constant component.
	ErrInvalidConstant
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrDuplicateSemantic:
		return "DuplicateSemantic"
	case ErrInvalidSemantic:
		return "InvalidSemantic"
	case ErrDuplicateBinding:
		return "DuplicateBinding"
	case ErrInvalidName:
		return "InvalidName"
	case ErrUnassignedRead:
		return "UnassignedRead"
	case ErrDuplicateAssignment:
		return "DuplicateAssignment"
	case ErrUnassignedOutput:
		return "UnassignedOutput"
	case ErrNotAssignable:
		return "NotAssignable"
	case ErrInvalidSwizzle:
		return "InvalidSwizzle"
	case ErrInvalidHandle:
		return "InvalidHandle"
	case ErrFinished:
		return "Finished"
	case ErrInvalidConstant:
		return "InvalidConstant"
	default:
		return "Unknown"
	}
}

// Error is a construction error: an IR invariant was violated while a
// program was being built or validated. It always indicates a defect in the
// code that assembled the program.
type Error struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ir %s (%s stage): %s", e.Kind, e.Stage, e.Message)
}

func newError(stage Stage, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}
