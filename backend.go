package ffshader

import (
	"errors"
	"fmt"

	"github.com/gogpu/ffshader/codegen"
	"github.com/gogpu/ffshader/codegen/hlsl"
	"github.com/gogpu/ffshader/codegen/wgsl"
	"github.com/gogpu/ffshader/compile"
	"github.com/gogpu/ffshader/ir"
)

// Backend pairs a source generator with a compiler.
type Backend struct {
	// Name identifies the backend in logs and in the bytecode store.
	Name string

	Generator codegen.Generator

	// Flags are the generator flags of each stage.
	Flags map[ir.Stage]codegen.Flags

	// Target selects the compiler profile of each stage.
	Target compile.Target

	Compiler compile.Compiler
}

// WebGPUBackend generates WGSL and compiles it to SPIR-V with naga.
func WebGPUBackend() *Backend {
	return &Backend{
		Name:      "webgpu",
		Generator: wgsl.New(),
		Target:    compile.TargetSPIRV,
		Compiler:  compile.NewNaga(),
	}
}

// Direct3D9Backend generates shader model 3 HLSL with combined samplers in
// the pixel stage and compiles it with the fxc-compatible binary at fxc.
func Direct3D9Backend(fxc string) *Backend {
	return &Backend{
		Name:      "d3d9",
		Generator: hlsl.New(hlsl.ShaderModel3),
		Flags: map[ir.Stage]codegen.Flags{
			ir.StagePixel: codegen.FlagCombinedSamplerTexture,
		},
		Target:   compile.TargetD3D9,
		Compiler: compile.NewFXC(fxc),
	}
}

// Direct3D11Backend generates shader model 4 HLSL with separate textures and
// samplers and compiles it with the fxc-compatible binary at fxc.
func Direct3D11Backend(fxc string) *Backend {
	return &Backend{
		Name:      "d3d11",
		Generator: hlsl.New(hlsl.ShaderModel4),
		Target:    compile.TargetD3D11,
		Compiler:  compile.NewFXC(fxc),
	}
}

// StageFlags returns the generator flags of stage.
func (b *Backend) StageFlags(stage ir.Stage) codegen.Flags {
	return b.Flags[stage]
}

// Profile returns the compiler profile of stage.
func (b *Backend) Profile(stage ir.Stage) string {
	return compile.Profile(b.Target, stage)
}

func (b *Backend) validate() error {
	switch {
	case b == nil:
		return errors.New("ffshader: nil backend")
	case b.Name == "":
		return errors.New("ffshader: backend has no name")
	case b.Generator == nil:
		return fmt.Errorf("ffshader: backend %s has no generator", b.Name)
	case b.Compiler == nil:
		return fmt.Errorf("ffshader: backend %s has no compiler", b.Name)
	}
	if g, ok := b.Generator.(hlsl.Generator); ok {
		want := hlsl.ShaderModel4
		if b.Target == compile.TargetD3D9 {
			want = hlsl.ShaderModel3
		}
		if g.Model != want {
			return fmt.Errorf("ffshader: backend %s generates %s for %s profiles", b.Name, g.Model, b.Profile(ir.StageVertex))
		}
	}
	return nil
}
