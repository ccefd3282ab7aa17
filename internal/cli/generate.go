package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var t target

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the generated source of a stage",
		Long: `Print the source the selected backend generates for one stage and
capability set: WGSL for webgpu, HLSL for d3d9 and d3d11.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stage, set, err := t.parse()
			if err != nil {
				return err
			}
			s, err := rootOpts.synthesizer("")
			if err != nil {
				return err
			}
			defer s.Close()

			src, err := s.Generate(stage, set)
			if err != nil {
				return WrapExitError(ExitFailure, "generate", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), src)
			return nil
		},
	}
	t.register(cmd)
	return cmd
}
