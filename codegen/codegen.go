// Package codegen defines the contract shared by shader source generators
// and the helpers they use to lower an ir.Program: body scheduling, semantic
// placement rules, naming and literal formatting.
//
// Generators live in subpackages, one per target language:
//
//	codegen/wgsl  WebGPU Shading Language
//	codegen/hlsl  Direct3D High-Level Shading Language
//
// A generator is a pure function of its inputs. Generating the same program
// with the same flags and entry point always yields byte-identical text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/gogpu/ffshader/ir"
)

// Flags select target-language representation choices that are unrelated to
// rendering features.
type Flags uint32

const (
	// FlagCombinedSamplerTexture represents each texture and its sampler as
	// one combined binding instead of two separate ones.
	FlagCombinedSamplerTexture Flags = 1 << iota
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String lists the set flags.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(FlagCombinedSamplerTexture) {
		parts = append(parts, "combined-sampler-texture")
		f &^= FlagCombinedSamplerTexture
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(f)))
	}
	return strings.Join(parts, "+")
}

// Generator lowers a program to source text in one target language.
type Generator interface {
	// Generate returns the source of p with its entry function named entry.
	// Failures are *Error values.
	Generate(p *ir.Program, entry string, flags Flags) (string, error)

	// Language returns the target language name, e.g. "wgsl".
	Language() string
}
