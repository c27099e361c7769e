package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"presupuestos/internal/ledger"
	"presupuestos/internal/log"
	"presupuestos/internal/services"
	"presupuestos/internal/sheets/file"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		filter filterFlags
		format string
		scope  string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered or full ledger as CSV or Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := file.ParseFormat(format)
			if err != nil {
				return err
			}
			sc, err := ledger.ParseScope(scope)
			if err != nil {
				return err
			}
			d, err := a.openDashboard(cmd.Context(), false, loadRequired)
			if err != nil {
				return fmt.Errorf("%s", loadMessage(err))
			}
			defer d.Close()

			d.ApplyFilter(filter.state())
			if outDir == "" {
				outDir = a.cfg.ExportDir
			}
			path, n, err := writeExport(d.Dashboard, outDir, sc, f, time.Now())
			if err != nil {
				return err
			}
			a.logger.Info("Export written", log.FieldOperation, log.OpExport,
				log.FieldFormat, f, log.FieldScope, sc, log.FieldRecords, n, "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "%d registros exportados a %s\n", n, path)
			return nil
		},
	}
	filter.bind(cmd)
	cmd.Flags().StringVar(&format, "format", string(file.FormatCSV), "csv or xlsx")
	cmd.Flags().StringVar(&scope, "scope", string(ledger.ScopeFiltered), "filtered or all")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default $EXPORT_DIR)")
	return cmd
}

// writeExport writes the export file into dir under its stamped name and
// returns the path and the number of records written.
func writeExport(d *services.Dashboard, dir string, scope ledger.Scope, format file.Format, now time.Time) (string, int, error) {
	var buf bytes.Buffer
	n, err := d.Export(&buf, scope, format)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, ledger.ExportFilename(scope, format, now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", path, err)
	}
	return path, n, nil
}
