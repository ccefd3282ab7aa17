package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	target
	Output string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a stage to bytecode",
		Long: `Generate and compile one stage. The webgpu backend compiles WGSL to
SPIR-V in process; the Direct3D backends run the --fxc compiler.
Without --output only a summary is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stage, set, err := opts.parse()
			if err != nil {
				return err
			}
			s, err := opts.synthesizer("")
			if err != nil {
				return err
			}
			defer s.Close()

			sh, err := s.Create(cmd.Context(), stage, set)
			if err != nil {
				return WrapExitError(ExitFailure, "compile", err)
			}
			if opts.Output != "" {
				if err := os.WriteFile(opts.Output, sh.Code.Data, 0o644); err != nil {
					return WrapExitError(ExitCommandError, "write output", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s %d bytes\n",
				sh.Stage, sh.Caps, sh.Code.Profile, sh.Code.Format, len(sh.Code.Data))
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "bytecode output file")
	return cmd
}
