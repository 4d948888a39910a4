package reporting

import (
	"strings"

	"vetcontrol/internal/domain/planillas"
)

// Zona es la clasificación efectiva de un registro.
type Zona int

const (
	ZonaUrbana Zona = iota
	ZonaRural
)

func (z Zona) String() string {
	if z == ZonaRural {
		return "rural"
	}
	return "urbano"
}

// Clasificar mapea la etiqueta libre de zona del responsable a urbano/rural.
// Es la regla de los reportes y estadísticas:
//   - "barrio" => urbano
//   - "vereda" y "centro poblado" => rural
//   - cualquier otro valor (incluido vacío) => valor por defecto de la planilla
//
// Función total y pura: entradas no reconocidas degradan al fallback, nunca fallan.
func Clasificar(zona string, fallback planillas.TipoZona) Zona {
	switch strings.ToLower(strings.TrimSpace(zona)) {
	case "barrio":
		return ZonaUrbana
	case "vereda", "centro poblado":
		return ZonaRural
	default:
		if fallback == planillas.ZonaRural {
			return ZonaRural
		}
		return ZonaUrbana
	}
}

// ClasificarTablero es la variante usada por los tableros por-responsable,
// donde "centro poblado" cuenta como urbano. Las dos reglas históricas
// divergen a propósito: los reportes estadísticos tratan centro poblado como
// rural (Clasificar) y los tableros lo tratan como urbano. Se mantiene el
// comportamiento por call-site en lugar de unificarlo en silencio.
func ClasificarTablero(zona string, fallback planillas.TipoZona) Zona {
	switch strings.ToLower(strings.TrimSpace(zona)) {
	case "barrio", "centro poblado":
		return ZonaUrbana
	case "vereda":
		return ZonaRural
	default:
		if fallback == planillas.ZonaRural {
			return ZonaRural
		}
		return ZonaUrbana
	}
}
