package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministore/searchable/internal/cliopt"
	"github.com/ministore/searchable/searchable/mapping"
)

func NewMappingCmd(g *cliopt.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspect entity mapping files",
	}
	cmd.AddCommand(newMappingValidateCmd(g), newMappingShowCmd(g))
	return cmd
}

func mappingPath(g *cliopt.GlobalOptions, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return g.Mapping
}

func newMappingValidateCmd(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a mapping file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := mappingPath(g, args)
			c, err := mapping.LoadFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d entities)\n", path, len(c.Names()))
			return nil
		},
	}
}

func newMappingShowCmd(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "List entities with their fields and associations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := mapping.LoadFile(mappingPath(g, args))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range c.Names() {
				e, err := c.Entity(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (%s)\n", e.Name(), e.Table())
				for _, f := range e.Fields() {
					fmt.Fprintf(out, "  %-20s %-10s column=%s\n", f.Name, f.Type, f.Column)
				}
				for _, a := range e.Associations() {
					fmt.Fprintf(out, "  %-20s -> %-7s %s = %s.%s\n", a.Name, a.Target, a.LocalColumn, a.Target, a.ForeignColumn)
				}
			}
			return nil
		},
	}
}
