package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X presupuestos/internal/cli.Version=...".
var Version = "dev"

// NewRootCommand assembles the presupuestos command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "presupuestos",
		Short: "Warehouse maintenance expense dashboard",
		Long: `presupuestos loads the warehouse issue ledger (CSV, Excel or Google Sheets),
filters it and aggregates the issued value by department, section, machine,
maintenance type and period.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.source, "source", "", "ledger file to load (default $DATA_SOURCE)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(a),
		newSummaryCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newLinesCommand(a),
		newEventsCommand(a),
		newVersionCommand(),
	)
	return root
}
