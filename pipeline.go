// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ffshader

import (
	"context"
	"fmt"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/compile"
	"github.com/gogpu/ffshader/layout"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RenderPipeline is a render pipeline running the vertex and pixel shaders
// of one capability set.
type RenderPipeline struct {
	Caps     caps.Set
	Vertex   *Shader
	Pixel    *Shader
	Pipeline hal.RenderPipeline

	// BindGroupLayouts holds the vertex group (0) and pixel group (1).
	BindGroupLayouts []hal.BindGroupLayout
	Layout           hal.PipelineLayout

	device hal.Device
}

// CreateRenderPipeline synthesizes both stages of set and creates a render
// pipeline drawing triangle lists into a single color target of format.
// It requires a device.
func (s *Synthesizer) CreateRenderPipeline(ctx context.Context, set caps.Set, format gputypes.TextureFormat) (*RenderPipeline, error) {
	if s.loader == nil {
		return nil, ErrNoDevice
	}
	rp := &RenderPipeline{Caps: set, device: s.loader.Device}
	ok := false
	defer func() {
		if !ok {
			rp.Destroy()
		}
	}()

	var err error
	if rp.Vertex, err = s.CreateVertexShader(ctx, set); err != nil {
		return nil, err
	}
	if rp.Pixel, err = s.CreatePixelShader(ctx, set); err != nil {
		return nil, err
	}

	buffers, err := layout.VertexBuffers(rp.Vertex.Program)
	if err != nil {
		return nil, fmt.Errorf("ffshader: pipeline for %s: %w", set, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	device := rp.device
	for _, sh := range []*Shader{rp.Vertex, rp.Pixel} {
		label := fmt.Sprintf("ffshader %s %s layout", sh.Stage, set)
		bgl, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   label,
			Entries: layout.BindGroupEntries(sh.Program),
		})
		if err != nil {
			return nil, fmt.Errorf("ffshader: create %s: %w", label, err)
		}
		rp.BindGroupLayouts = append(rp.BindGroupLayouts, bgl)
	}

	rp.Layout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            fmt.Sprintf("ffshader %s pipeline layout", set),
		BindGroupLayouts: rp.BindGroupLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("ffshader: create pipeline layout for %s: %w", set, err)
	}

	rp.Pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("ffshader %s pipeline", set),
		Layout: rp.Layout,
		Vertex: hal.VertexState{
			Module:     rp.Vertex.Module,
			EntryPoint: compile.EntryPoint,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     rp.Pixel.Module,
			EntryPoint: compile.EntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ffshader: create pipeline for %s: %w", set, err)
	}

	Logger().Debug("ffshader: render pipeline created", "caps", set, "format", format)
	ok = true
	return rp, nil
}

// Destroy releases the pipeline, its layouts and both shaders in reverse
// creation order. Safe to call multiple times.
func (rp *RenderPipeline) Destroy() {
	if rp == nil || rp.device == nil {
		return
	}
	if rp.Pipeline != nil {
		rp.device.DestroyRenderPipeline(rp.Pipeline)
		rp.Pipeline = nil
	}
	if rp.Layout != nil {
		rp.device.DestroyPipelineLayout(rp.Layout)
		rp.Layout = nil
	}
	for i := len(rp.BindGroupLayouts) - 1; i >= 0; i-- {
		rp.device.DestroyBindGroupLayout(rp.BindGroupLayouts[i])
	}
	rp.BindGroupLayouts = nil
	rp.Pixel.Destroy()
	rp.Vertex.Destroy()
}
