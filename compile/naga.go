// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compile

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/naga"
	nagair "github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/ffshader/ir"
)

// Naga compiles WGSL to SPIR-V in process. It ignores cancellation once
// started: naga runs to completion.
type Naga struct {
	// Options controls the SPIR-V version, debug info and IR validation.
	Options naga.CompileOptions
}

// NewNaga returns a compiler producing validated SPIR-V 1.3.
func NewNaga() *Naga {
	return &Naga{Options: naga.DefaultOptions()}
}

// Compile compiles req.Source. The source must define an entry point named
// req.EntryPoint for req.Stage.
func (n *Naga) Compile(ctx context.Context, req Request) (*Bytecode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile := req.Profile
	if profile == "" {
		profile = ProfileSPIRV
	}
	fail := func(err error) error {
		return &CompileError{Stage: req.Stage, Profile: profile, Diagnostic: err.Error(), Err: err}
	}
	if req.Source == "" {
		return nil, fail(ErrEmptySource)
	}
	if profile != ProfileSPIRV {
		return nil, fail(fmt.Errorf("naga: unsupported profile %q", profile))
	}

	start := time.Now()
	module, err := parseWGSL(req.Source)
	if err != nil {
		return nil, fail(err)
	}
	if err := findEntryPoint(module, req.Stage, req.entry()); err != nil {
		return nil, fail(err)
	}
	if n.Options.Validate {
		errs, err := naga.Validate(module)
		if err != nil {
			return nil, fail(fmt.Errorf("validation error: %w", err))
		}
		if len(errs) > 0 {
			return nil, fail(fmt.Errorf("validation failed: %w", &errs[0]))
		}
	}
	data, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: n.Options.SPIRVVersion,
		Debug:   n.Options.Debug,
	})
	if err != nil {
		return nil, fail(err)
	}

	slogger().Debug("compile: naga",
		"stage", req.Stage,
		"bytes", len(data),
		"elapsed", time.Since(start))
	return &Bytecode{Stage: req.Stage, Profile: profile, Format: FormatSPIRV, Data: data}, nil
}

// parseWGSL parses and lowers WGSL source to naga IR.
func parseWGSL(source string) (*nagair.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lowering error: %w", err)
	}
	return module, nil
}

func findEntryPoint(module *nagair.Module, stage ir.Stage, name string) error {
	want := nagair.StageVertex
	if stage == ir.StagePixel {
		want = nagair.StageFragment
	}
	for _, ep := range module.EntryPoints {
		if ep.Name == name {
			if ep.Stage != want {
				return fmt.Errorf("entry point %q is not a %s shader", name, stage)
			}
			return nil
		}
	}
	return fmt.Errorf("entry point %q not found", name)
}
