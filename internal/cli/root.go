package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ministore/searchable/internal/cli/commands"
	"github.com/ministore/searchable/internal/cliopt"
	"github.com/ministore/searchable/internal/logging"
)

// NewRootCmd builds the command tree. Logs go to errOut.
func NewRootCmd(errOut io.Writer) *cobra.Command {
	g := cliopt.DefaultGlobalOptions()

	root := &cobra.Command{
		Use:           "searchable",
		Short:         "Compile and run declarative filter/order specifications against mapped entities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cliopt.Load(cmd.Flags(), &g); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Init(errOut, logging.Config{Level: g.LogLevel, Format: g.LogFormat})
			return nil
		},
	}
	root.SetErr(errOut)
	cliopt.BindGlobalFlags(root.PersistentFlags(), &g)

	root.AddCommand(
		commands.NewCompileCmd(&g),
		commands.NewSearchCmd(&g),
		commands.NewMappingCmd(&g),
	)
	return root
}

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	root := NewRootCmd(os.Stderr)
	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
