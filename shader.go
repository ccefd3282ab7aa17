package ffshader

import (
	"sync"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/compile"
	"github.com/gogpu/ffshader/ir"
	"github.com/gogpu/wgpu/hal"
)

// Shader is a compiled shader stage. It is immutable and safe for
// concurrent read-only use.
type Shader struct {
	Stage   ir.Stage
	Caps    caps.Set
	Backend string

	// Program is the IR the source was generated from.
	Program *ir.Program

	// Source is the generated source text.
	Source string

	Code *compile.Bytecode

	// Module is the device shader module. It is nil when the Synthesizer
	// has no device.
	Module hal.ShaderModule

	loader  compile.Loader
	destroy sync.Once
}

// Destroy releases the device module. It is safe to call more than once and
// on shaders without a module.
func (sh *Shader) Destroy() {
	if sh == nil {
		return
	}
	sh.destroy.Do(func() {
		if sh.loader != nil && sh.Module != nil {
			sh.loader.Unload(sh.Module)
		}
	})
}
