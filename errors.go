package ffshader

import (
	"errors"
	"fmt"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/ir"
)

var (
	// ErrNoDevice is returned by operations that need a device when the
	// Synthesizer was created without one.
	ErrNoDevice = errors.New("ffshader: no device")

	// ErrDeviceTarget is returned by New when a device is combined with a
	// backend whose bytecode the device cannot load.
	ErrDeviceTarget = errors.New("ffshader: backend bytecode cannot be loaded on a HAL device")

	// ErrClosed is returned by a closed Synthesizer.
	ErrClosed = errors.New("ffshader: synthesizer closed")
)

// Phase is a state of the per-request pipeline.
type Phase uint8

const (
	// PhaseDeclared: the capability set was accepted.
	PhaseDeclared Phase = iota
	// PhaseBuilt: the IR program was built and validated.
	PhaseBuilt
	// PhaseGenerated: source text was generated.
	PhaseGenerated
	// PhaseCompiled: bytecode was produced or found in the store.
	PhaseCompiled
	// PhaseReady: the shader object exists.
	PhaseReady
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDeclared:
		return "declared"
	case PhaseBuilt:
		return "built"
	case PhaseGenerated:
		return "generated"
	case PhaseCompiled:
		return "compiled"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Error is the error of a failed request. Phase is the last phase the request
// reached; Err is the *ir.Error, *codegen.Error or *compile.CompileError that
// stopped it.
type Error struct {
	Stage ir.Stage
	Caps  caps.Set
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ffshader: %s shader for %s failed after %s: %v", e.Stage, e.Caps, e.Phase, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
