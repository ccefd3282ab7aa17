package cli

import (
	"fmt"
	"strings"

	"github.com/gogpu/ffshader/compile"
	"github.com/spf13/cobra"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		t    target
		lang string
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate the generated WGSL of a stage to another language",
		Long: fmt.Sprintf(`Generate the WGSL of one stage and cross-compile it with naga.
Languages: %s.`, strings.Join(compile.TranslateLanguages, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stage, set, err := t.parse()
			if err != nil {
				return err
			}
			s, err := rootOpts.synthesizer("webgpu")
			if err != nil {
				return err
			}
			defer s.Close()

			src, err := s.Generate(stage, set)
			if err != nil {
				return WrapExitError(ExitFailure, "generate", err)
			}
			out, err := compile.Translate(src, strings.ToLower(lang), compile.EntryPoint)
			if err != nil {
				return WrapExitError(ExitFailure, "translate", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	t.register(cmd)
	cmd.Flags().StringVarP(&lang, "lang", "l", compile.LanguageMSL, "target language")
	return cmd
}
