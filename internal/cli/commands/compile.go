package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ministore/searchable/internal/cliopt"
	"github.com/ministore/searchable/internal/cliutil"
	"github.com/ministore/searchable/searchable"
	"github.com/ministore/searchable/searchable/planner"
)

type compileOutput struct {
	Entity string         `json:"entity"`
	Plan   []string       `json:"plan"`
	Params map[string]any `json:"params"`
	SQL    string         `json:"sql"`
	Args   []any          `json:"args"`
}

func NewCompileCmd(g *cliopt.GlobalOptions) *cobra.Command {
	var entity, format string
	var in cliutil.SpecInput
	var limit, offset uint64

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the plan and SQL for a filter/order specification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := cliutil.LoadEntity(*g, entity)
			if err != nil {
				return err
			}
			adapter, err := cliutil.NewAdapter(*g, "")
			if err != nil {
				return err
			}
			filters, orders, err := in.Read(cmd.InOrStdin())
			if err != nil {
				return err
			}

			repo := searchable.New(e, searchable.RepositoryOptions{Logger: slog.Default()})
			plan, err := repo.Compile(filters, orders)
			if err != nil {
				return err
			}
			query, args, err := planner.BuildSelectSQL(plan, planner.SelectOptions{
				Format: adapter.PlaceholderFormat(),
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch cliutil.ParseOutputFormat(format) {
			case cliutil.FormatJSON:
				cliutil.PrintJSON(out, compileOutput{
					Entity: plan.Entity,
					Plan:   plan.ExplainSteps,
					Params: plan.ParamMap(),
					SQL:    query,
					Args:   args,
				})
			case cliutil.FormatSQL:
				fmt.Fprintln(out, query)
			default:
				fmt.Fprintf(out, "Entity: %s (%s AS %s)\n", plan.Entity, plan.Table, plan.Alias)
				if len(plan.ExplainSteps) > 0 {
					fmt.Fprintln(out, "\nPlan:")
					for _, s := range plan.ExplainSteps {
						fmt.Fprintf(out, "  %s\n", s)
					}
				}
				fmt.Fprintf(out, "\nSQL:\n%s\n", query)
				if len(args) > 0 {
					fmt.Fprintf(out, "\nArgs: %v\n", args)
				}
			}
			return nil
		},
	}

	bindSpecFlags(cmd, &entity, &in)
	cmd.Flags().StringVar(&format, "format", "pretty", "format: pretty|json|sql")
	cmd.Flags().Uint64Var(&limit, "limit", 0, "limit (0 for none)")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "offset, applied with --limit")
	return cmd
}

func bindSpecFlags(cmd *cobra.Command, entity *string, in *cliutil.SpecInput) {
	cmd.Flags().StringVarP(entity, "entity", "e", "", "entity to search")
	cmd.Flags().StringVarP(&in.Document, "doc", "d", "", "document with filters and orders (file, - for stdin)")
	cmd.Flags().StringVarP(&in.Filters, "where", "w", "", "inline filters (JSON or YAML)")
	cmd.Flags().StringVarP(&in.Orders, "order", "o", "", "inline orders (JSON or YAML)")
}
