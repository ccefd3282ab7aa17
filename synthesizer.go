// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ffshader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/compile"
	"github.com/gogpu/ffshader/fixedfunc"
	"github.com/gogpu/ffshader/internal/store"
	"github.com/gogpu/ffshader/ir"
)

// Synthesizer runs the build, generate, compile and load pipeline for
// capability sets. Every request is independent: nothing is cached between
// requests except through the optional bytecode store.
//
// Synthesizer is safe for concurrent use. Device object creation is
// serialized.
type Synthesizer struct {
	backend *Backend
	loader  *compile.HALLoader
	store   *store.Store

	mu     sync.Mutex // serializes device object creation and Close
	closed bool
}

// New creates a Synthesizer. Without WithBackend it uses WebGPUBackend.
func New(opts ...Option) (*Synthesizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	if o.backend == nil {
		o.backend = WebGPUBackend()
	}
	if err := o.backend.validate(); err != nil {
		return nil, err
	}

	s := &Synthesizer{backend: o.backend}

	device := o.device
	if device == nil && o.provider != nil {
		d, err := compile.HALDevice(o.provider)
		if err != nil {
			return nil, fmt.Errorf("ffshader: device provider: %w", err)
		}
		device = d
	}
	if device != nil {
		if o.backend.Target != compile.TargetSPIRV {
			return nil, fmt.Errorf("%w: backend %s", ErrDeviceTarget, o.backend.Name)
		}
		s.loader = compile.NewHALLoader(device)
	}

	if o.storePath != "" {
		st, err := store.Open(o.storePath)
		if err != nil {
			return nil, fmt.Errorf("ffshader: %w", err)
		}
		s.store = st
	}

	Logger().Debug("ffshader: synthesizer created",
		"backend", s.backend.Name,
		"device", s.loader != nil,
		"store", o.storePath)
	return s, nil
}

// Backend returns the backend of s.
func (s *Synthesizer) Backend() *Backend {
	return s.backend
}

// HasDevice reports whether shaders are loaded as device modules.
func (s *Synthesizer) HasDevice() bool {
	return s.loader != nil
}

// Close closes the bytecode store. Shaders created by s stay valid and must
// be destroyed by their owners. Requests still running when Close is called
// may fail.
func (s *Synthesizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// CreateVertexShader synthesizes the vertex shader of set.
func (s *Synthesizer) CreateVertexShader(ctx context.Context, set caps.Set) (*Shader, error) {
	return s.Create(ctx, ir.StageVertex, set)
}

// CreatePixelShader synthesizes the pixel shader of set.
func (s *Synthesizer) CreatePixelShader(ctx context.Context, set caps.Set) (*Shader, error) {
	return s.Create(ctx, ir.StagePixel, set)
}

// Create runs the whole pipeline for one stage and capability set. Failures
// are returned as *Error carrying the phase reached.
func (s *Synthesizer) Create(ctx context.Context, stage ir.Stage, set caps.Set) (*Shader, error) {
	start := time.Now()
	p, src, err := s.generate(stage, set)
	if err != nil {
		return nil, err
	}

	code, err := s.compile(ctx, stage, set, src)
	if err != nil {
		return nil, err
	}
	s.trace(stage, set, PhaseCompiled)

	sh := &Shader{
		Stage:   stage,
		Caps:    set,
		Backend: s.backend.Name,
		Program: p,
		Source:  src,
		Code:    code,
	}
	if err := s.load(sh); err != nil {
		return nil, err
	}
	s.trace(stage, set, PhaseReady, "elapsed", time.Since(start))
	return sh, nil
}

// Generate builds the program of stage for set and returns its source text.
func (s *Synthesizer) Generate(stage ir.Stage, set caps.Set) (string, error) {
	_, src, err := s.generate(stage, set)
	return src, err
}

// Build returns the validated IR program of stage for set.
func (s *Synthesizer) Build(stage ir.Stage, set caps.Set) (*ir.Program, error) {
	if err := set.Validate(); err != nil {
		return nil, &Error{Stage: stage, Caps: set, Phase: PhaseDeclared, Err: err}
	}
	s.trace(stage, set, PhaseDeclared)

	p, err := fixedfunc.Build(stage, set)
	if err != nil {
		return nil, &Error{Stage: stage, Caps: set, Phase: PhaseDeclared, Err: err}
	}
	s.trace(stage, set, PhaseBuilt)
	return p, nil
}

func (s *Synthesizer) generate(stage ir.Stage, set caps.Set) (*ir.Program, string, error) {
	p, err := s.Build(stage, set)
	if err != nil {
		return nil, "", err
	}
	src, err := s.backend.Generator.Generate(p, compile.EntryPoint, s.backend.StageFlags(stage))
	if err != nil {
		return nil, "", &Error{Stage: stage, Caps: set, Phase: PhaseBuilt, Err: err}
	}
	s.trace(stage, set, PhaseGenerated, "bytes", len(src))
	return p, src, nil
}

// compile returns the bytecode of src, from the store when present.
// Store failures are logged and never fail the request.
func (s *Synthesizer) compile(ctx context.Context, stage ir.Stage, set caps.Set, src string) (*compile.Bytecode, error) {
	key := store.Key{Backend: s.backend.Name, Stage: stage, Caps: set, Source: src}
	if s.store != nil {
		code, ok, err := s.store.Get(ctx, key)
		switch {
		case err != nil:
			Logger().Warn("ffshader: store lookup failed", "stage", stage, "caps", set, "err", err)
		case ok:
			Logger().Debug("ffshader: store hit", "stage", stage, "caps", set)
			return code, nil
		}
	}

	code, err := s.backend.Compiler.Compile(ctx, compile.Request{
		Stage:      stage,
		Source:     src,
		EntryPoint: compile.EntryPoint,
		Profile:    s.backend.Profile(stage),
	})
	if err != nil {
		return nil, &Error{Stage: stage, Caps: set, Phase: PhaseGenerated, Err: err}
	}

	if s.store != nil {
		if err := s.store.Put(ctx, key, code); err != nil {
			Logger().Warn("ffshader: store write failed", "stage", stage, "caps", set, "err", err)
		}
	}
	return code, nil
}

func (s *Synthesizer) load(sh *Shader) error {
	if s.loader == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &Error{Stage: sh.Stage, Caps: sh.Caps, Phase: PhaseCompiled, Err: ErrClosed}
	}
	label := fmt.Sprintf("ffshader %s %s %s", s.backend.Name, sh.Stage, sh.Caps)
	m, err := s.loader.Load(label, sh.Code)
	if err != nil {
		return &Error{Stage: sh.Stage, Caps: sh.Caps, Phase: PhaseCompiled, Err: err}
	}
	sh.Module = m
	sh.loader = s.loader
	return nil
}

func (s *Synthesizer) trace(stage ir.Stage, set caps.Set, phase Phase, args ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("ffshader: phase",
		append([]any{"backend", s.backend.Name, "stage", stage, "caps", set, "phase", phase}, args...)...)
}
