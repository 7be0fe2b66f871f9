package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"field-projection/internal/gen"
)

func newGenCmd(opts *rootOptions) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "gen [packages]",
		Short: "Generate descriptor sets for the given packages",
		Long: "gen loads the packages (default ./...), plans every aggregate and writes one\n" +
			"generated file per package.",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, _, err := opts.generate(cmd.Context(), args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if stdout {
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), "===", f.Path(opts.generatorConfig().OutputDir), "===")
					fmt.Fprintln(cmd.OutOrStdout(), string(f.Content))
				}

				return nil
			}

			if err := gen.WriteFiles(files, opts.generatorConfig().OutputDir); err != nil {
				return sysError(err)
			}

			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", f.Path(opts.generatorConfig().OutputDir))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "print generated files instead of writing them")

	return cmd
}
