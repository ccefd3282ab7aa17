package cli

import (
	"fmt"

	"github.com/gogpu/ffshader/caps"
	"github.com/spf13/cobra"
)

// NewCapsCommand creates the caps command.
func NewCapsCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "List the supported capability sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, set := range caps.Supported() {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%02x %s\n", uint32(set), set)
			}
			return nil
		},
	}
}
