package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"presupuestos/internal/core"
	"presupuestos/internal/ledger"
	"presupuestos/internal/log"
	"presupuestos/internal/services"
	"presupuestos/internal/sheets/file"
)

type filtersResponse struct {
	Filter   core.FilterState       `json:"filter"`
	Options  services.FilterOptions `json:"options"`
	Filtered int                    `json:"filtered"`
	Total    int                    `json:"total"`
}

func (s *Server) filtersResponse() filtersResponse {
	filtered, total := s.dash.Counts()
	return filtersResponse{
		Filter:   s.dash.Filter(),
		Options:  s.dash.Options(),
		Filtered: filtered,
		Total:    total,
	}
}

func (s *Server) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.filtersResponse())
}

func (s *Server) handleApplyFilter(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n := s.dash.ApplyFilter(state)
	log.FromContext(r.Context()).DebugContext(r.Context(), "Filter applied",
		log.FieldOperation, log.OpFilter, log.FieldRecords, n)
	writeJSON(w, http.StatusOK, s.filtersResponse())
}

func (s *Server) handleResetFilter(w http.ResponseWriter, _ *http.Request) {
	s.dash.ResetFilter()
	writeJSON(w, http.StatusOK, s.filtersResponse())
}

// kpisView adds display strings to the KPIs.
type kpisView struct {
	core.KPIs
	TotalDisplay           string `json:"totalDisplay"`
	AverageDisplay         string `json:"averageDisplay"`
	TopMachineValueDisplay string `json:"topMachineValueDisplay"`
}

func (s *Server) handleKPIs(w http.ResponseWriter, _ *http.Request) {
	k := s.dash.KPIs()
	writeJSON(w, http.StatusOK, kpisView{
		KPIs:                   k,
		TotalDisplay:           core.FormatCurrency(k.Total),
		AverageDisplay:         core.FormatCurrency(k.Average),
		TopMachineValueDisplay: core.FormatCurrency(k.TopMachineValue),
	})
}

func (s *Server) handleDepartments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Departments())
}

func (s *Server) handleMaintenanceTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.MaintenanceTypes())
}

func (s *Server) handleTopMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.TopMachines(parseLimit(r)))
}

func (s *Server) handleMachine(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid machine name")
		return
	}
	d := s.dash.MachineData(sanitizeInput(name))
	if d == nil {
		writeError(w, http.StatusNotFound, "Máquina no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// groupView is one group of GroupBy with its issued-value total.
type groupView struct {
	Name    string        `json:"name"`
	Total   float64       `json:"total"`
	Count   int           `json:"count"`
	Records []core.Record `json:"records,omitempty"`
}

func (s *Server) fieldParam(w http.ResponseWriter, r *http.Request) (core.Field, bool) {
	name, err := pathParam(r, "field")
	if err == nil {
		var f core.Field
		if f, err = core.ParseField(name); err == nil {
			return f, true
		}
	}
	writeError(w, http.StatusBadRequest, "Campo desconocido: "+chi.URLParam(r, "field"))
	return "", false
}

// handleGroups groups the filtered records by a field. Records are listed
// only with ?records=true.
func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	f, ok := s.fieldParam(w, r)
	if !ok {
		return
	}
	groups, err := s.dash.GroupBy(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	withRecords := r.URL.Query().Get("records") == "true"
	views := make([]groupView, 0, groups.Len())
	for _, key := range groups.Keys() {
		records := groups.Get(key)
		v := groupView{Name: key, Count: len(records)}
		for _, rec := range records {
			v.Total += rec.IssuedValue
		}
		if withRecords {
			v.Records = records
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	f, ok := s.fieldParam(w, r)
	if !ok {
		return
	}
	values, err := s.dash.UniqueValues(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.MonthlySeries())
}

func (s *Server) handleWeeklySeries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.WeeklySeries())
}

func (s *Server) handleHierarchy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Hierarchy())
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.dash.PeriodBreakdown(year, month))
}

// recordView adds display strings to a record for the detail grid.
type recordView struct {
	core.Record
	DateDisplay        string `json:"dateDisplay"`
	UnitCostDisplay    string `json:"unitCostDisplay"`
	IssuedValueDisplay string `json:"issuedValueDisplay"`
}

type recordsResponse struct {
	Count   int          `json:"count"`
	Records []recordView `json:"records"`
}

func (s *Server) handleRecords(w http.ResponseWriter, _ *http.Request) {
	records := s.dash.Records()
	views := make([]recordView, len(records))
	for i, rec := range records {
		views[i] = recordView{
			Record:             rec,
			DateDisplay:        core.FormatDate(rec.Date),
			UnitCostDisplay:    core.FormatCurrency(rec.UnitCost),
			IssuedValueDisplay: core.FormatCurrency(rec.IssuedValue),
		}
	}
	writeJSON(w, http.StatusOK, recordsResponse{Count: len(views), Records: views})
}

type linesResponse struct {
	Machines []string `json:"machines"`
	Lines    []string `json:"lines"`
}

func (s *Server) handleGetLines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, linesResponse{
		Machines: s.dash.Machines(),
		Lines:    s.dash.Lines(r.Context()),
	})
}

func (s *Server) handleSaveLines(w http.ResponseWriter, r *http.Request) {
	lines, err := parseLines(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i := range lines {
		lines[i] = sanitizeInput(lines[i])
	}
	saved, err := s.dash.SaveLines(r.Context(), lines)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save production lines", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "No se pudo guardar la configuración de líneas de producción.")
		return
	}
	writeJSON(w, http.StatusOK, linesResponse{Machines: s.dash.Machines(), Lines: saved})
}

func (s *Server) handleLinesHierarchy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.ProductionLineHierarchy(r.Context()))
}

func (s *Server) handleLinesSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.ProductionLineSummary(r.Context()))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	modeParam := r.URL.Query().Get("mode")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeError(w, http.StatusBadRequest, "La solicitud debe incluir un archivo en el campo 'file'.")
		return
	}
	if modeParam == "" {
		modeParam = r.FormValue("mode")
	}
	mode, err := ledger.ParseImportMode(modeParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "La solicitud debe incluir un archivo en el campo 'file'.")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No se pudo leer el archivo.")
		return
	}

	res, err := s.dash.Import(ctx, file.NewUpload(header.Filename, data), mode)
	if err != nil {
		var ie *ledger.ImportError
		if errors.As(err, &ie) {
			logger.WarnContext(ctx, "Import rejected",
				log.FieldOperation, log.OpImport, log.FieldSource, header.Filename, log.FieldError, err)
			writeError(w, http.StatusBadRequest, ie.Message)
			return
		}
		logger.ErrorContext(ctx, "Import failed", log.FieldSource, header.Filename, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Error al importar el archivo.")
		return
	}
	s.responses.Purge()
	logger.InfoContext(ctx, "Import completed",
		log.FieldOperation, log.OpImport,
		log.FieldSource, header.Filename,
		log.FieldMode, string(mode),
		log.FieldRecords, res.Count)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := file.FormatCSV
	if v := q.Get("format"); v != "" {
		f, err := file.ParseFormat(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Formato no soportado. Use csv o xlsx.")
			return
		}
		format = f
	}
	scope, err := ledger.ParseScope(q.Get("scope"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	n, err := s.dash.Export(&buf, scope, format)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			log.FieldOperation, log.OpExport, log.FieldFormat, string(format), log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Error al exportar los datos.")
		return
	}

	name := ledger.ExportFilename(scope, format, s.now())
	w.Header().Set("Content-Type", ledger.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Record-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
