package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ministore/searchable/internal/cliopt"
	"github.com/ministore/searchable/internal/cliutil"
	"github.com/ministore/searchable/searchable"
)

func NewSearchCmd(g *cliopt.GlobalOptions) *cobra.Command {
	var entity, db, format string
	var in cliutil.SpecInput
	var opts searchable.SearchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a filter/order specification and print matching rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := cliutil.LoadEntity(*g, entity)
			if err != nil {
				return err
			}
			adapter, err := cliutil.NewAdapter(*g, db)
			if err != nil {
				return err
			}
			filters, orders, err := in.Read(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, err := searchable.Open(ctx, adapter, e, searchable.RepositoryOptions{Logger: slog.Default()})
			if err != nil {
				return err
			}
			defer repo.Close()

			start := time.Now()
			rows, err := repo.Search(ctx, filters, orders, opts)
			if err != nil {
				return err
			}
			printRows(cmd.OutOrStdout(), cliutil.ParseOutputFormat(format), rows, time.Since(start))
			return nil
		},
	}

	bindSpecFlags(cmd, &entity, &in)
	cmd.Flags().StringVar(&db, "db", "", "sqlite database name or path")
	cmd.Flags().StringVar(&format, "format", "pretty", "format: pretty|json")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 20, "limit (0 for none)")
	cmd.Flags().Uint64Var(&opts.Offset, "offset", 0, "offset, applied with --limit")
	return cmd
}

func printRows(w io.Writer, format cliutil.OutputFormat, rows []searchable.Row, dur time.Duration) {
	if format == cliutil.FormatJSON {
		if rows == nil {
			rows = []searchable.Row{}
		}
		cliutil.PrintJSON(w, rows)
		return
	}
	fmt.Fprintf(w, "Found %d rows in %dms\n", len(rows), dur.Milliseconds())
	for _, r := range rows {
		b, _ := json.Marshal(r)
		fmt.Fprintf(w, "- %s\n", b)
	}
}
