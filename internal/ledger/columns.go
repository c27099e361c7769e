// Package ledger turns warehouse issue tables into records, holds the
// working dataset, and projects records back into the ledger schema.
package ledger

// Canonical column names of the ledger schema.
const (
	ColIssueNumber     = "No. Salida"
	ColDate            = "Fecha Contabilizacion"
	ColDay             = "Dia"
	ColWeek            = "Semana"
	ColMonth           = "Mes"
	ColItemCode        = "Articulo"
	ColDescription     = "Descripcion"
	ColQuantity        = "Cantidad"
	ColUnitCost        = "Costo Articulo"
	ColIssuedValue     = "Valor Salida"
	ColAuthorizer      = "Nombre Autorizador"
	ColSupervisor      = "Encargado"
	ColDepartment      = "Departamento"
	ColMachine         = "Maquinaria"
	ColSection         = "Seccion"
	ColMarket          = "Mercado"
	ColComment         = "Comentario"
	ColWarehouseClerk  = "Bodeguero"
	ColMaintenanceType = "Tipo Mantenimiento"
)

// ExportHeader lists the canonical columns in schema order.
var ExportHeader = []string{
	ColIssueNumber,
	ColDate,
	ColDay,
	ColWeek,
	ColMonth,
	ColItemCode,
	ColDescription,
	ColQuantity,
	ColUnitCost,
	ColIssuedValue,
	ColAuthorizer,
	ColSupervisor,
	ColDepartment,
	ColMachine,
	ColSection,
	ColMarket,
	ColComment,
	ColWarehouseClerk,
	ColMaintenanceType,
}

// aliases lists the shortened names accepted by alternate import files,
// after the canonical name.
var aliases = map[string][]string{
	ColIssueNumber:     {"No Salida"},
	ColDate:            {"Fecha"},
	ColUnitCost:        {"Costo"},
	ColIssuedValue:     {"Valor"},
	ColAuthorizer:      {"Autorizador"},
	ColMaintenanceType: {"Tipo"},
}

// lookupNames returns the names tried for a column, canonical first.
func lookupNames(col string) []string {
	return append([]string{col}, aliases[col]...)
}
