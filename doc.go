// Package ffshader synthesizes fixed-function vertex and pixel shaders from a
// capability set.
//
// # Overview
//
// Each request runs a short pipeline for one stage and one capability set:
//
//	caps.Set -> fixedfunc (ir.Program) -> codegen (source) -> compile (bytecode) -> Shader
//
// The capability set is the only input. Every configuration produces a
// branch-free program specialized at construction time, so the generated
// source of a (stage, caps) pair is deterministic and can be cached by that
// pair alone.
//
// # Quick Start
//
//	s, err := ffshader.New(ffshader.WithDevice(device))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	vs, err := s.CreateVertexShader(ctx, caps.Texture)
//	ps, err := s.CreatePixelShader(ctx, caps.Texture)
//
// # Backends
//
// WebGPUBackend (default) generates WGSL and compiles it to SPIR-V in process
// with naga. Direct3D9Backend and Direct3D11Backend generate HLSL and run an
// fxc-compatible compiler binary.
//
// # Caching
//
// A Synthesizer keeps no shader objects. Use ShaderCache to retain shaders
// across requests, and WithStore to persist bytecode across processes.
//
// # Architecture
//
//   - caps: capability sets
//   - ir: shader IR and builder
//   - fixedfunc: the fixed-function shader builders
//   - codegen, codegen/wgsl, codegen/hlsl: source generators
//   - compile: compilers and the HAL loader
//   - layout: vertex and bind group layouts derived from programs
package ffshader

// Version is the current version of the library.
const Version = "0.1.0"
