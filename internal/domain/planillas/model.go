package planillas

import "time"

// TipoZona es la clasificación por defecto de la planilla.
// @Enum urbano, rural
type TipoZona string

const (
	ZonaUrbano TipoZona = "urbano"
	ZonaRural  TipoZona = "rural"
)

// Planilla es la unidad de trabajo de vacunación, acotada a un municipio.
type Planilla struct {
	ID     string
	Nombre string

	Municipio                 string
	UrbanoRural               TipoZona
	CentroPobladoVeredaBarrio string
	Zona                      string

	// Personal asignado. El principal y los adicionales se consultan siempre
	// como unión, nunca como override.
	VacunadorID            string
	TecnicoID              string // vacío = sin técnico asignado
	VacunadoresAdicionales []string
	TecnicosAdicionales    []string

	Creada time.Time
}

// TieneVacunador indica si el usuario es vacunador principal o adicional.
func (p Planilla) TieneVacunador(userID string) bool {
	if userID == "" {
		return false
	}
	if p.VacunadorID == userID {
		return true
	}
	for _, id := range p.VacunadoresAdicionales {
		if id == userID {
			return true
		}
	}
	return false
}

// TieneTecnico indica si el usuario es técnico principal o adicional.
func (p Planilla) TieneTecnico(userID string) bool {
	if userID == "" {
		return false
	}
	if p.TecnicoID == userID {
		return true
	}
	for _, id := range p.TecnicosAdicionales {
		if id == userID {
			return true
		}
	}
	return false
}

// TodosVacunadores retorna principal + adicionales, sin duplicados.
func (p Planilla) TodosVacunadores() []string {
	return unionIDs(p.VacunadorID, p.VacunadoresAdicionales)
}

// TodosTecnicos retorna principal + adicionales, sin duplicados.
func (p Planilla) TodosTecnicos() []string {
	return unionIDs(p.TecnicoID, p.TecnicosAdicionales)
}

func unionIDs(principal string, adicionales []string) []string {
	out := make([]string, 0, 1+len(adicionales))
	seen := map[string]struct{}{}
	if principal != "" {
		out = append(out, principal)
		seen[principal] = struct{}{}
	}
	for _, id := range adicionales {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
