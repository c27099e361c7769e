package ledger

import (
	"errors"
	"fmt"

	"presupuestos/internal/sheets/file"
)

// LoadError reports an initial load that could not read or parse its source.
type LoadError struct {
	Source  string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ImportError reports an import that left the dataset untouched. Message is
// meant for the end user.
type ImportError struct {
	Source  string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %s", e.Source, e.Message)
}

func (e *ImportError) Unwrap() error { return e.Err }

// readFailureMessage phrases a source failure for the end user.
func readFailureMessage(sourceName string, err error) string {
	if errors.Is(err, file.ErrUnsupportedFormat) {
		return "Formato de archivo no soportado. Use CSV o Excel."
	}
	format, ferr := file.FormatFromName(sourceName)
	switch {
	case ferr == nil && format == file.FormatXLSX:
		return "Error al procesar el archivo Excel: " + err.Error()
	case ferr == nil && format == file.FormatCSV:
		return "Error al leer el archivo CSV: " + err.Error()
	}
	return "Error al leer los datos: " + err.Error()
}
