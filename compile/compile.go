// Package compile turns generated shader source into bytecode and loads
// bytecode into device shader modules.
//
// A Compiler runs one request to completion and either returns bytecode or a
// *CompileError carrying the diagnostic; partial results are never returned.
// Two compilers are provided:
//
//   - Naga compiles WGSL to SPIR-V in process.
//   - External runs a host compiler binary such as fxc or dxc on HLSL.
//
// HALLoader creates hal.ShaderModule objects from SPIR-V bytecode.
package compile

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/ffshader/ir"
)

// EntryPoint is the entry function name used for every generated stage.
const EntryPoint = "main"

// ProfileSPIRV is the profile string of the in-process SPIR-V compiler.
const ProfileSPIRV = "spirv_1_3"

// Format identifies the encoding of Bytecode.Data.
type Format uint8

const (
	// FormatSPIRV is a little-endian stream of 32-bit SPIR-V words.
	FormatSPIRV Format = iota
	// FormatDXBC is a Direct3D shader blob as written by fxc or dxc.
	FormatDXBC
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatSPIRV:
		return "spirv"
	case FormatDXBC:
		return "dxbc"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Target is a family of compiler profiles.
type Target uint8

const (
	// TargetSPIRV is SPIR-V 1.3 for Vulkan-class devices.
	TargetSPIRV Target = iota
	// TargetD3D9 is Direct3D 9 shader model 3.
	TargetD3D9
	// TargetD3D11 is Direct3D 11 shader model 4.
	TargetD3D11
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetSPIRV:
		return "spirv"
	case TargetD3D9:
		return "d3d9"
	case TargetD3D11:
		return "d3d11"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// Profile returns the fixed compiler profile string of a stage on a target.
func Profile(target Target, stage ir.Stage) string {
	prefix := "vs"
	if stage == ir.StagePixel {
		prefix = "ps"
	}
	switch target {
	case TargetD3D9:
		return prefix + "_3_0"
	case TargetD3D11:
		return prefix + "_4_0"
	default:
		return ProfileSPIRV
	}
}

// Request is one compilation.
type Request struct {
	Stage  ir.Stage
	Source string

	// EntryPoint defaults to EntryPoint when empty.
	EntryPoint string

	// Profile is the target profile, e.g. "ps_3_0".
	Profile string
}

func (r Request) entry() string {
	if r.EntryPoint == "" {
		return EntryPoint
	}
	return r.EntryPoint
}

// Bytecode is the output of a successful compilation.
type Bytecode struct {
	Stage   ir.Stage
	Profile string
	Format  Format
	Data    []byte
}

// Words returns SPIR-V bytecode as 32-bit words.
func (b *Bytecode) Words() ([]uint32, error) {
	if b.Format != FormatSPIRV {
		return nil, fmt.Errorf("%w: format %s", ErrNotSPIRV, b.Format)
	}
	if len(b.Data) == 0 || len(b.Data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of words", ErrNotSPIRV, len(b.Data))
	}
	words := make([]uint32, len(b.Data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b.Data[i*4:])
	}
	return words, nil
}

// Compiler compiles source text for one stage.
type Compiler interface {
	Compile(ctx context.Context, req Request) (*Bytecode, error)
}
