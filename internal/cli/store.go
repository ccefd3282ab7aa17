package cli

import (
	"fmt"

	"github.com/gogpu/ffshader/internal/store"
	"github.com/spf13/cobra"
)

// NewStoreCommand creates the store command and its subcommands.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the bytecode store named by --store",
	}

	open := func() (*store.Store, error) {
		if rootOpts.Store == "" {
			return nil, NewExitError(ExitCommandError, "--store is required")
		}
		st, err := store.Open(rootOpts.Store)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open store", err)
		}
		return st, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of stored shaders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := st.Count(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "count", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prune [backend]",
		Short: "Delete the stored shaders of a backend, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()
			backend := ""
			if len(args) == 1 {
				backend = args[0]
			}
			n, err := st.Prune(cmd.Context(), backend)
			if err != nil {
				return WrapExitError(ExitFailure, "prune", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d\n", n)
			return nil
		},
	})

	return cmd
}
