// Package cli implements the ffshaderc command line.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/ffshader"
	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/ir"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Backend string // "webgpu" | "d3d9" | "d3d11"
	FXC     string // fxc-compatible compiler for the Direct3D backends
	Store   string // optional SQLite bytecode store
}

// ValidBackends defines the allowed backend names.
var ValidBackends = []string{"webgpu", "d3d9", "d3d11"}

// NewRootCommand creates the root command of ffshaderc.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ffshaderc",
		Short: "Fixed-function shader synthesizer",
		Long: `ffshaderc builds the fixed-function vertex and pixel shaders of a
capability set, prints their source and compiles them to bytecode.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error once
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !isValidBackend(opts.Backend) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid backend %q: must be one of %v", opts.Backend, ValidBackends))
			}
			if opts.Verbose {
				ffshader.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "webgpu", "backend (webgpu|d3d9|d3d11)")
	cmd.PersistentFlags().StringVar(&opts.FXC, "fxc", "fxc", "fxc-compatible compiler for the Direct3D backends")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "SQLite bytecode store path")

	cmd.AddCommand(NewCapsCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewStoreCommand(opts))

	return cmd
}

func isValidBackend(name string) bool {
	for _, b := range ValidBackends {
		if b == name {
			return true
		}
	}
	return false
}

// backend returns the backend selected by name.
func (o *RootOptions) backend(name string) *ffshader.Backend {
	switch name {
	case "d3d9":
		return ffshader.Direct3D9Backend(o.FXC)
	case "d3d11":
		return ffshader.Direct3D11Backend(o.FXC)
	default:
		return ffshader.WebGPUBackend()
	}
}

// synthesizer creates a Synthesizer for the backend name, or the global
// backend when name is empty.
func (o *RootOptions) synthesizer(name string) (*ffshader.Synthesizer, error) {
	if name == "" {
		name = o.Backend
	}
	if !isValidBackend(name) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid backend %q", name))
	}
	opts := []ffshader.Option{ffshader.WithBackend(o.backend(name))}
	if o.Store != "" {
		opts = append(opts, ffshader.WithStore(o.Store))
	}
	s, err := ffshader.New(opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "create synthesizer", err)
	}
	return s, nil
}

// target holds the --stage and --caps flags shared by several commands.
type target struct {
	Stage string
	Caps  string
}

func (t *target) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&t.Stage, "stage", "s", "pixel", "shader stage (vertex|pixel)")
	cmd.Flags().StringVarP(&t.Caps, "caps", "c", "none", `capability set, e.g. "texture" or "none"`)
}

func (t *target) parse() (ir.Stage, caps.Set, error) {
	return parseTarget(t.Stage, t.Caps)
}

func parseTarget(stageText, capsText string) (ir.Stage, caps.Set, error) {
	stage, err := ir.ParseStage(strings.ToLower(stageText))
	if err != nil {
		return 0, 0, WrapExitError(ExitCommandError, "invalid stage", err)
	}
	set, err := caps.Parse(capsText)
	if err != nil {
		return 0, 0, WrapExitError(ExitCommandError, "invalid caps", err)
	}
	return stage, set, nil
}
