package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"presupuestos/internal/config"
)

func newLinesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Show or replace the configured production lines",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the machines of the ledger, marking production lines",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d, err := a.openDashboard(cmd.Context(), false, loadTolerant)
				if err != nil {
					return err
				}
				defer d.Close()

				ctx := cmd.Context()
				out := cmd.OutOrStdout()
				lines := d.Lines(ctx)
				known := map[string]bool{}
				for _, m := range d.Machines() {
					known[m] = true
					mark := " "
					if d.IsProductionLine(ctx, m) {
						mark = "*"
					}
					fmt.Fprintf(out, "%s %s\n", mark, m)
				}
				for _, l := range lines {
					if !known[l] {
						fmt.Fprintf(out, "* %s (sin registros)\n", l)
					}
				}
				fmt.Fprintf(out, "%d líneas de producción configuradas\n", len(lines))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set [machine...]",
			Short: "Replace the production lines; no arguments clears them",
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.cfg.ConfigBackend != config.ConfigBackendSQLite {
					a.logger.Warn("Production lines are kept in memory and will not persist",
						"config_backend", a.cfg.ConfigBackend)
				}
				d, err := a.openDashboard(cmd.Context(), true, loadSkip)
				if err != nil {
					return err
				}
				defer d.Close()

				saved, err := d.SaveLines(cmd.Context(), args)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d líneas de producción guardadas\n", len(saved))
				return nil
			},
		},
	)
	return cmd
}
