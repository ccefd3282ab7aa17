// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layout derives WebGPU vertex buffer and bind group layouts from ir
// programs. The bindings match the ones emitted by codegen/wgsl, so a
// pipeline built from these layouts accepts the generated shaders.
package layout

import (
	"errors"
	"fmt"

	"github.com/gogpu/ffshader/codegen"
	"github.com/gogpu/ffshader/codegen/wgsl"
	"github.com/gogpu/ffshader/ir"
	"github.com/gogpu/gputypes"
)

// ErrNotVertex is returned by VertexBuffers for a program of another stage.
var ErrNotVertex = errors.New("layout: vertex buffers need a vertex program")

// VertexFormat returns the vertex attribute format of a stage input type.
func VertexFormat(t ir.Type) (gputypes.VertexFormat, error) {
	switch t {
	case ir.Float:
		return gputypes.VertexFormatFloat32, nil
	case ir.Float2:
		return gputypes.VertexFormatFloat32x2, nil
	case ir.Float3:
		return gputypes.VertexFormatFloat32x3, nil
	case ir.Float4:
		return gputypes.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("layout: %s is not a vertex attribute type", t)
	}
}

// VertexBuffers returns a single interleaved vertex buffer holding every
// input of a vertex program in declaration order.
func VertexBuffers(p *ir.Program) ([]gputypes.VertexBufferLayout, error) {
	if p == nil || p.Stage != ir.StageVertex {
		return nil, ErrNotVertex
	}
	locs := codegen.Locations(p.Inputs)
	attrs := make([]gputypes.VertexAttribute, 0, len(p.Inputs))
	var offset uint64
	for i, d := range p.Inputs {
		if locs[i] < 0 {
			continue
		}
		format, err := VertexFormat(d.Type)
		if err != nil {
			return nil, fmt.Errorf("layout: input %d (%s%d): %w", i, d.Semantic, d.SemanticIndex, err)
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: uint32(locs[i]),
		})
		offset += format.Size()
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: offset,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		},
	}, nil
}

// Visibility returns the shader stage flag of an ir stage.
func Visibility(stage ir.Stage) gputypes.ShaderStages {
	if stage == ir.StagePixel {
		return gputypes.ShaderStageFragment
	}
	return gputypes.ShaderStageVertex
}

// Group returns the bind group index of the entries of p.
func Group(p *ir.Program) uint32 {
	return wgsl.Group(p.Stage)
}

// BindGroupEntries returns the bind group layout entries of p: uniform
// buffers first, then a texture and sampler pair per texture declaration.
func BindGroupEntries(p *ir.Program) []gputypes.BindGroupLayoutEntry {
	if p == nil {
		return nil
	}
	vis := Visibility(p.Stage)
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(p.Uniforms)+2*len(p.Textures))
	for i, d := range p.Uniforms {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: vis,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: UniformSize(d.Type),
			},
		})
	}
	for i := range p.Textures {
		b := wgsl.TextureBinding(len(p.Uniforms), i)
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    b,
				Visibility: vis,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    b + 1,
				Visibility: vis,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	return entries
}

// UniformSize returns the byte size of a uniform of type t.
func UniformSize(t ir.Type) uint64 {
	if t == ir.Matrix44 {
		return 64
	}
	return uint64(t.Components()) * 4
}
