package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"field-projection/projection"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <name>...",
		Short: "Print the field identity of each name",
		Args:  cobra.MinimumNArgs(1),
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", projection.Hash(name), name)
			}

			return nil
		},
	}
}
