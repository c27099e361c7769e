package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"presupuestos/internal/core"
)

// filterFlags binds the filter controls shared by summary and export.
type filterFlags struct {
	year, month, department, section, maintenanceType string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.year, "year", "", "filter by year, e.g. 2025")
	cmd.Flags().StringVar(&f.month, "month", "", "filter by month number, 1-12")
	cmd.Flags().StringVar(&f.department, "department", "", "filter by department")
	cmd.Flags().StringVar(&f.section, "section", "", "filter by section")
	cmd.Flags().StringVar(&f.maintenanceType, "type", "", "filter by maintenance type")
}

func (f *filterFlags) state() core.FilterState {
	return core.FilterState{
		Year:            f.year,
		Month:           f.month,
		Department:      f.department,
		Section:         f.section,
		MaintenanceType: f.maintenanceType,
	}.Canonical()
}

func newSummaryCommand(a *app) *cobra.Command {
	var filter filterFlags
	var (
		top     int
		groupBy string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print KPIs and aggregations of the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDashboard(cmd.Context(), false, loadRequired)
			if err != nil {
				return fmt.Errorf("%s", loadMessage(err))
			}
			defer d.Close()

			var field core.Field
			if groupBy != "" {
				if field, err = core.ParseField(groupBy); err != nil {
					return fmt.Errorf("--group-by %q: %w", groupBy, err)
				}
			}

			d.ApplyFilter(filter.state())
			filtered, total := d.Counts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registros: %d de %d\n", filtered, total)
			printKPIs(out, d.KPIs())

			printGroups(out, "Departamentos", d.Departments())
			printGroups(out, "Tipos de mantenimiento", d.MaintenanceTypes())

			if field != "" {
				groups, err := d.GroupBy(field)
				if err != nil {
					return err
				}
				totals := make([]core.GroupTotal, 0, groups.Len())
				for _, key := range groups.Keys() {
					g := core.GroupTotal{Name: key}
					for _, r := range groups.Get(key) {
						g.Total += r.IssuedValue
						g.Count++
					}
					totals = append(totals, g)
				}
				printGroups(out, "Agrupado por "+groupBy, totals)
			}

			fmt.Fprintln(out, "\nMáquinas principales")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, m := range d.TopMachines(top) {
				fmt.Fprintf(tw, "%d.\t%s\t%s\t%d\t%s\n", i+1, m.Machine, m.Department, m.Count, core.FormatCurrency(m.Total))
			}
			return tw.Flush()
		},
	}
	filter.bind(cmd)
	cmd.Flags().IntVar(&top, "top", core.DefaultTopLimit, "number of machines to list")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "also total by a record field, e.g. section or supervisor")
	return cmd
}

func printKPIs(w io.Writer, k core.KPIs) {
	fmt.Fprintf(w, "Total: %s\n", core.FormatCurrency(k.Total))
	fmt.Fprintf(w, "Promedio: %s\n", core.FormatCurrency(k.Average))
	fmt.Fprintf(w, "Salidas: %d\n", k.Count)
	fmt.Fprintf(w, "Máquina principal: %s (%s)\n", k.TopMachine, core.FormatCurrency(k.TopMachineValue))
}

func printGroups(w io.Writer, title string, groups []core.GroupTotal) {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Name, g.Count, core.FormatCurrency(g.Total))
	}
	_ = tw.Flush()
}
