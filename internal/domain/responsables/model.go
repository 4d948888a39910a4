package responsables

import "time"

// Responsable es la persona a cargo de una o más mascotas, atada a una planilla.
type Responsable struct {
	ID         string
	Nombre     string
	Telefono   string
	Finca      string
	PlanillaID string

	// Control de vacunación. Zona es la etiqueta libre (barrio, vereda,
	// centro poblado) que decide urbano/rural por encima de la planilla.
	Zona       string
	NombreZona string
	LoteVacuna string

	// Quién lo registró. Vacío para datos importados/legados.
	CreatedBy string

	Creado time.Time
}
