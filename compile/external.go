package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// External runs a host compiler binary. The source is written to a
// temporary file, the compiler writes its object file next to it, and the
// object is read back as bytecode. Cancelling the context kills the process.
type External struct {
	// Path is the compiler executable, e.g. "fxc.exe".
	Path string

	// Args builds the command line for one request. Nil selects FXCArgs.
	Args func(req Request, input, output string) []string

	// Format is the format of the object files the compiler writes.
	Format Format
}

// NewFXC returns an External running the fxc-compatible compiler at path.
func NewFXC(path string) *External {
	return &External{Path: path, Args: FXCArgs, Format: FormatDXBC}
}

// FXCArgs returns an fxc command line: fixed profile and entry point, no
// banner, object written to output.
func FXCArgs(req Request, input, output string) []string {
	return []string{"/nologo", "/T", req.Profile, "/E", req.entry(), "/Fo", output, input}
}

// Compile runs the compiler on req.Source.
func (e *External) Compile(ctx context.Context, req Request) (*Bytecode, error) {
	fail := func(diag string, err error) error {
		return &CompileError{Stage: req.Stage, Profile: req.Profile, Diagnostic: diag, Err: err}
	}
	if req.Source == "" {
		return nil, fail("", ErrEmptySource)
	}
	if e.Path == "" {
		return nil, fail("", errors.New("compile: no compiler path"))
	}

	dir, err := os.MkdirTemp("", "ffshader-*")
	if err != nil {
		return nil, fmt.Errorf("compile: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "shader.hlsl")
	output := filepath.Join(dir, "shader.obj")
	if err := os.WriteFile(input, []byte(req.Source), 0o600); err != nil {
		return nil, fmt.Errorf("compile: write source: %w", err)
	}

	argsFn := e.Args
	if argsFn == nil {
		argsFn = FXCArgs
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Path, argsFn(req, input, output)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	diag := strings.TrimSpace(stderr.String())
	if diag == "" {
		diag = strings.TrimSpace(stdout.String())
	}
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = ctxErr
		}
		return nil, fail(diag, runErr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, fail(diag, fmt.Errorf("compile: read object: %w", err))
	}
	if len(data) == 0 {
		return nil, fail(diag, errors.New("compile: compiler wrote an empty object"))
	}

	slogger().Debug("compile: external",
		"compiler", e.Path,
		"stage", req.Stage,
		"profile", req.Profile,
		"bytes", len(data),
		"elapsed", time.Since(start))
	return &Bytecode{Stage: req.Stage, Profile: req.Profile, Format: e.Format, Data: data}, nil
}
