// Package fixedfunc builds the shader programs that emulate the fixed
// function pipeline for a capability set.
//
// Builders are pure functions of the set: no I/O, no backend calls and no
// shared state. Equal sets yield structurally identical programs, so a
// compiled shader can be memoized by (stage, set) alone.
//
// The vertex stage is the same for every set:
//
//	outPosition = projMatrix * float4(inPosition.xyz, 1)
//	outTexCoord = inTexCoord.xyzw
//	outColor    = inColor.xyzw
//
// The pixel stage modulates the interpolated color:
//
//	temp     = set.Has(caps.Texture) ? sample(texture0, inTexCoord.xy) : float4(1, 1, 1, 1)
//	outColor = inColor * temp
//
// The choice is made while building, so the generated code has no branches.
package fixedfunc

import (
	"fmt"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/ir"
)

// ProjectionMatrix is the name of the vertex stage's projection uniform.
const ProjectionMatrix = "g_projMatrix"

// TextureSlot is the texture unit read by the pixel stage.
const TextureSlot = 0

// Attribute semantics shared by both stages. The color travels as a second
// texture coordinate.
const (
	TexCoordIndex = 0
	ColorIndex    = 1
)

// Build returns the program of the given stage for set.
func Build(stage ir.Stage, set caps.Set) (*ir.Program, error) {
	switch stage {
	case ir.StageVertex:
		return BuildVertex(set)
	case ir.StagePixel:
		return BuildPixel(set)
	default:
		return nil, fmt.Errorf("fixedfunc: unknown stage %s", stage)
	}
}

// BuildVertex returns the vertex program for set.
func BuildVertex(set caps.Set) (*ir.Program, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	b := ir.NewBuilder(ir.StageVertex)

	inPosition := b.CreateInput(ir.SemanticPosition, 0)
	inTexCoord := b.CreateInput(ir.SemanticTexCoord, TexCoordIndex)
	inColor := b.CreateInput(ir.SemanticTexCoord, ColorIndex)

	outPosition := b.CreateOutput(ir.SemanticSystemPosition, 0)
	outTexCoord := b.CreateOutput(ir.SemanticTexCoord, TexCoordIndex)
	outColor := b.CreateOutput(ir.SemanticTexCoord, ColorIndex)

	projMatrix := b.CreateUniformMatrix(ProjectionMatrix)

	b.Assign(outPosition, b.Mul(projMatrix, b.Construct(ir.Float4, b.XYZ(inPosition), b.Constant(1))))
	b.Assign(outTexCoord, b.XYZW(inTexCoord))
	b.Assign(outColor, b.XYZW(inColor))

	return finish(b, set)
}

// BuildPixel returns the pixel program for set.
func BuildPixel(set caps.Set) (*ir.Program, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	b := ir.NewBuilder(ir.StagePixel)

	inTexCoord := b.CreateInput(ir.SemanticTexCoord, TexCoordIndex)
	inColor := b.CreateInput(ir.SemanticTexCoord, ColorIndex)

	outColor := b.CreateOutput(ir.SemanticSystemColor, 0)

	texture := b.CreateTexture2D(TextureSlot)
	modulate := b.CreateTemporary(ir.Float4)

	if set.Has(caps.Texture) {
		b.Assign(modulate, b.Sample(texture, b.XY(inTexCoord)))
	} else {
		b.Assign(modulate, b.NewFloat4(1, 1, 1, 1))
	}
	b.Assign(outColor, b.Mul(inColor, modulate))

	return finish(b, set)
}

func finish(b *ir.Builder, set caps.Set) (*ir.Program, error) {
	p, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("fixedfunc: build %s stage for %s: %w", b.Stage(), set, err)
	}
	return p, nil
}
