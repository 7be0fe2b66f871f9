package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"field-projection/internal/analyze"
	"field-projection/internal/plan"
)

// Output formats of the inspect command.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatDump = "dump"
)

// aggregateView is the printable form of a planned aggregate.
type aggregateView struct {
	Type        string      `yaml:"type"`
	Exported    bool        `yaml:"exported"`
	Pin         bool        `yaml:"pin"`
	Source      string      `yaml:"source"`
	Relocatable string      `yaml:"relocatable"`
	Blocker     string      `yaml:"blocker,omitempty"`
	External    bool        `yaml:"external,omitempty"`
	Fields      []fieldView `yaml:"fields"`
}

type fieldView struct {
	Name       string `yaml:"name"`
	ID         string `yaml:"id"`
	Type       string `yaml:"type"`
	Capability string `yaml:"capability"`
	Exported   bool   `yaml:"exported"`
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Print the projection plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.buildPlan(cmd.Context(), args)
			if err != nil {
				return err
			}

			printDiagnostics(cmd.ErrOrStderr(), &p.Diagnostics, true)

			views := viewPlan(p)
			out := cmd.OutOrStdout()

			switch format {
			case formatText:
				writeText(out, views)
			case formatYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)

				if err := enc.Encode(views); err != nil {
					return sysError(fmt.Errorf("encode plan: %w", err))
				}

				if err := enc.Close(); err != nil {
					return sysError(err)
				}
			case formatDump:
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
				cfg.Fdump(out, views)
			default:
				return userError(fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatYAML, formatDump))
			}

			if p.Diagnostics.HasErrors() {
				return userError(fmt.Errorf("%d error(s) in projection plan", len(p.Diagnostics.Errors)))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, yaml or dump")

	return cmd
}

func viewPlan(p *plan.Plan) []aggregateView {
	var views []aggregateView

	for _, pkg := range p.Packages {
		for _, agg := range pkg.Aggregates {
			v := aggregateView{
				Type:        agg.Type.ID.String(),
				Exported:    agg.Type.Exported(),
				Pin:         agg.Pin,
				Source:      agg.Source.String(),
				Relocatable: agg.Relocatable.String(),
				Blocker:     agg.Blocker,
				External:    agg.External,
			}

			for _, f := range agg.Fields {
				capability := "mapping"
				if agg.Pin {
					capability = f.Capability.String()
				}

				v.Fields = append(v.Fields, fieldView{
					Name:       f.Name,
					ID:         f.ID.String(),
					Type:       analyze.TypeString(f.Type, pkg.Pkg),
					Capability: capability,
					Exported:   f.Exported,
				})
			}

			views = append(views, v)
		}
	}

	return views
}

func writeText(w io.Writer, views []aggregateView) {
	for _, v := range views {
		fmt.Fprintf(w, "%s (%s, %s)\n", v.Type, v.Source, v.Relocatable)

		if v.Blocker != "" {
			fmt.Fprintf(w, "  blocked by %s\n", v.Blocker)
		}

		if v.External {
			fmt.Fprintln(w, "  verdict relies on structs outside the loaded packages")
		}

		for _, f := range v.Fields {
			fmt.Fprintf(w, "  %-12s %s  %-8s %s\n", f.Name, f.ID, f.Capability, f.Type)
		}
	}
}
