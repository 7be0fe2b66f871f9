package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"field-projection/internal/diagnostic"
	"field-projection/internal/gen"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages]",
		Short: "Verify the projection plan and that generated files are up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, _, err := opts.generate(cmd.Context(), args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			stale, err := gen.Stale(files, opts.generatorConfig().OutputDir)
			if err != nil {
				return sysError(err)
			}

			var diags diagnostic.Diagnostics
			for _, path := range stale {
				diags.AddError(diagnostic.CodeStaleOutput, "generated file is missing or out of date", "", path)
			}

			printDiagnostics(cmd.ErrOrStderr(), &diags, false)

			if diags.HasErrors() {
				return userError(fmt.Errorf("%d stale file(s), run fieldproj gen", len(stale)))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d package(s) up to date\n", len(files))

			return nil
		},
	}
}
