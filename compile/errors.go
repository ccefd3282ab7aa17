package compile

import (
	"errors"
	"fmt"

	"github.com/gogpu/ffshader/ir"
)

var (
	// ErrEmptySource is returned for a request without source text.
	ErrEmptySource = errors.New("compile: empty source")

	// ErrNotSPIRV is returned when SPIR-V words are requested from other
	// bytecode.
	ErrNotSPIRV = errors.New("compile: bytecode is not SPIR-V")

	// ErrNoDevice is returned by a loader without a device.
	ErrNoDevice = errors.New("compile: no device")

	// ErrUnsupportedLanguage is returned by Translate for an unknown
	// target language.
	ErrUnsupportedLanguage = errors.New("compile: unsupported language")
)

// CompileError reports source text rejected by a compiler. Diagnostic holds
// the compiler's messages.
type CompileError struct {
	Stage      ir.Stage
	Profile    string
	Diagnostic string
	Err        error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile: %s stage (%s) failed", e.Stage, e.Profile)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
