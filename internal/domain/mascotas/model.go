package mascotas

import "time"

// Tipo define las especies soportadas por la campaña.
// @Enum perro, gato
type Tipo string

const (
	TipoPerro Tipo = "perro"
	TipoGato  Tipo = "gato"
)

// Mascota es el animal registrado durante la jornada de vacunación.
type Mascota struct {
	ID     string
	Nombre string
	Tipo   Tipo
	Raza   string
	Color  string

	// Tarjeta de vacunación previa y estado de esterilización.
	AntecedenteVacunal bool
	Esterilizado       bool

	// Nullable: filas legadas pueden quedar huérfanas de responsable.
	ResponsableID string

	// Georreferenciación opcional.
	Latitud  *float64
	Longitud *float64

	// Ruta de la foto en el storage de archivos. El core no toca el archivo.
	FotoPath string

	// Quién lo registró. Vacío para datos importados/legados.
	CreatedBy string

	Creado time.Time
}

// TieneGeoreferencia indica si la mascota tiene lat/long completas.
func (m Mascota) TieneGeoreferencia() bool {
	return m.Latitud != nil && m.Longitud != nil
}
