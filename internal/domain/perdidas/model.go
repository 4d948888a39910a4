package perdidas

import "time"

// RegistroPerdida documenta dosis de vacuna perdidas o desperdiciadas.
// No tiene relación con planillas ni responsables.
type RegistroPerdida struct {
	ID            string
	RegistradoPor string

	Cantidad   int
	LoteVacuna string
	Motivo     string

	FotoPath string
	Latitud  *float64
	Longitud *float64

	FechaRegistro time.Time
	FechaPerdida  time.Time

	// Sincronización offline de la app móvil: UUIDLocal se genera en el
	// dispositivo y hace idempotente el reenvío.
	Sincronizado bool
	UUIDLocal    string
}
