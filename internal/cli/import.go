package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"presupuestos/internal/ledger"
	"presupuestos/internal/sheets/file"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		path   string
		mode   string
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a file into the ledger and write the merged dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := ledger.ParseImportMode(mode)
			if err != nil {
				return err
			}
			f, err := file.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			// Replace does not need the base dataset.
			policy := loadRequired
			if m == ledger.ImportReplace {
				policy = loadSkip
			}
			d, err := a.openDashboard(cmd.Context(), true, policy)
			if err != nil {
				return fmt.Errorf("%s", loadMessage(err))
			}
			defer d.Close()

			res, err := d.Import(cmd.Context(), file.NewUpload(filepath.Base(path), data), m)
			if err != nil {
				return fmt.Errorf("%s", loadMessage(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message)

			if outDir == "" {
				return nil
			}
			written, n, err := writeExport(d.Dashboard, outDir, ledger.ScopeAll, f, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d registros escritos en %s\n", n, written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "CSV or Excel file to import")
	cmd.Flags().StringVar(&mode, "mode", string(ledger.ImportReplace), "replace or append")
	cmd.Flags().StringVar(&format, "format", string(file.FormatCSV), "format of the merged dataset written to --out")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for the merged dataset; nothing is written when empty")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
