package reporting

import (
	"sort"
	"strings"
	"time"

	"vetcontrol/internal/domain/mascotas"
	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/responsables"
)

// FiltrosArbol son los filtros del árbol jerárquico de reportes.
type FiltrosArbol struct {
	FechaInicio *time.Time
	FechaFin    *time.Time

	Municipio string // substring, case-insensitive
	Vacunador string // user id exacto
	Tipo      string // perro, gato o vacío

	SoloConAntecedente bool
	SoloEsterilizados  bool
}

// RegistroDetalle es la fila mascota+responsable+planilla ya unida, con el
// username del vacunador resuelto.
type RegistroDetalle struct {
	Mascota     mascotas.Mascota
	Responsable responsables.Responsable

	Municipio         string
	FallbackZona      planillas.TipoZona
	VacunadorID       string
	VacunadorUsername string
}

// Niveles del árbol: Municipio -> Vacunador -> Día -> Responsable -> Mascota.

type MascotaArbol struct {
	ID                 string    `json:"id"`
	Nombre             string    `json:"nombre"`
	Tipo               string    `json:"tipo"`
	Raza               string    `json:"raza"`
	Color              string    `json:"color"`
	AntecedenteVacunal bool      `json:"antecedente_vacunal"`
	Esterilizado       bool      `json:"esterilizado"`
	Creado             time.Time `json:"creado"`
}

type ResponsableArbol struct {
	ID            string         `json:"id"`
	Nombre        string         `json:"nombre"`
	Telefono      string         `json:"telefono"`
	Finca         string         `json:"finca"`
	Zona          string         `json:"zona"`
	TotalMascotas int            `json:"total_mascotas"`
	TotalPerros   int            `json:"total_perros"`
	TotalGatos    int            `json:"total_gatos"`
	Mascotas      []MascotaArbol `json:"mascotas"`
}

type FechaArbol struct {
	Fecha         string             `json:"fecha"`
	TotalMascotas int                `json:"total_mascotas"`
	TotalPerros   int                `json:"total_perros"`
	TotalGatos    int                `json:"total_gatos"`
	Responsables  []ResponsableArbol `json:"responsables"`
}

type VacunadorArbol struct {
	Nombre        string       `json:"nombre"`
	TotalMascotas int          `json:"total_mascotas"`
	TotalPerros   int          `json:"total_perros"`
	TotalGatos    int          `json:"total_gatos"`
	Fechas        []FechaArbol `json:"fechas"`
}

type MunicipioArbol struct {
	Municipio     string           `json:"municipio"`
	TotalMascotas int              `json:"total_mascotas"`
	TotalPerros   int              `json:"total_perros"`
	TotalGatos    int              `json:"total_gatos"`
	Vacunadores   []VacunadorArbol `json:"vacunadores"`
}

type ArbolReportes struct {
	TotalMascotas   int              `json:"total_mascotas"`
	TotalMunicipios int              `json:"total_municipios"`
	Municipios      []MunicipioArbol `json:"arbol"`
}

// ConstruirArbol arma el árbol de drill-down a partir de registros ya unidos,
// aplicando los filtros. Los subtotales por nivel cuadran por construcción.
func ConstruirArbol(registros []RegistroDetalle, f FiltrosArbol) ArbolReportes {
	type porResponsable map[string][]RegistroDetalle
	type porFecha map[string]porResponsable
	type porVacunador map[string]porFecha

	arbol := map[string]porVacunador{}

	for _, reg := range registros {
		if !pasaFiltros(reg, f) {
			continue
		}

		municipio := reg.Municipio
		if strings.TrimSpace(municipio) == "" {
			municipio = SinEspecificar
		}
		vacunador := reg.VacunadorUsername
		if vacunador == "" {
			vacunador = "Sin asignar"
		}
		fecha := reg.Mascota.Creado.Format("2006-01-02")
		// Se agrupa por ID: dos responsables con el mismo nombre no se mezclan.
		responsable := reg.Responsable.ID

		if arbol[municipio] == nil {
			arbol[municipio] = porVacunador{}
		}
		if arbol[municipio][vacunador] == nil {
			arbol[municipio][vacunador] = porFecha{}
		}
		if arbol[municipio][vacunador][fecha] == nil {
			arbol[municipio][vacunador][fecha] = porResponsable{}
		}
		arbol[municipio][vacunador][fecha][responsable] = append(arbol[municipio][vacunador][fecha][responsable], reg)
	}

	out := ArbolReportes{Municipios: make([]MunicipioArbol, 0, len(arbol))}

	for _, municipio := range clavesOrdenadas(arbol) {
		mun := MunicipioArbol{Municipio: municipio}

		for _, vacunador := range clavesOrdenadas(arbol[municipio]) {
			vac := VacunadorArbol{Nombre: vacunador}

			for _, fecha := range clavesOrdenadas(arbol[municipio][vacunador]) {
				fe := FechaArbol{Fecha: fecha}

				for _, id := range clavesOrdenadas(arbol[municipio][vacunador][fecha]) {
					regs := arbol[municipio][vacunador][fecha][id]

					resp := ResponsableArbol{
						ID:       id,
						Mascotas: make([]MascotaArbol, 0, len(regs)),
					}
					if len(regs) > 0 {
						resp.Nombre = regs[0].Responsable.Nombre
						resp.Telefono = regs[0].Responsable.Telefono
						resp.Finca = regs[0].Responsable.Finca
						resp.Zona = regs[0].Responsable.Zona
					}
					if resp.Nombre == "" {
						resp.Nombre = SinEspecificar
					}

					sort.Slice(regs, func(i, j int) bool {
						return regs[i].Mascota.Nombre < regs[j].Mascota.Nombre
					})

					for _, reg := range regs {
						m := reg.Mascota
						resp.Mascotas = append(resp.Mascotas, MascotaArbol{
							ID:                 m.ID,
							Nombre:             m.Nombre,
							Tipo:               string(m.Tipo),
							Raza:               m.Raza,
							Color:              m.Color,
							AntecedenteVacunal: m.AntecedenteVacunal,
							Esterilizado:       m.Esterilizado,
							Creado:             m.Creado,
						})
						resp.TotalMascotas++
						switch m.Tipo {
						case mascotas.TipoPerro:
							resp.TotalPerros++
						case mascotas.TipoGato:
							resp.TotalGatos++
						}
					}

					fe.TotalMascotas += resp.TotalMascotas
					fe.TotalPerros += resp.TotalPerros
					fe.TotalGatos += resp.TotalGatos
					fe.Responsables = append(fe.Responsables, resp)
				}

				// Para el lector el orden natural es por nombre, no por ID
				sort.Slice(fe.Responsables, func(i, j int) bool {
					if fe.Responsables[i].Nombre != fe.Responsables[j].Nombre {
						return fe.Responsables[i].Nombre < fe.Responsables[j].Nombre
					}
					return fe.Responsables[i].ID < fe.Responsables[j].ID
				})

				vac.TotalMascotas += fe.TotalMascotas
				vac.TotalPerros += fe.TotalPerros
				vac.TotalGatos += fe.TotalGatos
				vac.Fechas = append(vac.Fechas, fe)
			}

			mun.TotalMascotas += vac.TotalMascotas
			mun.TotalPerros += vac.TotalPerros
			mun.TotalGatos += vac.TotalGatos
			mun.Vacunadores = append(mun.Vacunadores, vac)
		}

		out.TotalMascotas += mun.TotalMascotas
		out.Municipios = append(out.Municipios, mun)
	}

	out.TotalMunicipios = len(out.Municipios)
	return out
}

func pasaFiltros(reg RegistroDetalle, f FiltrosArbol) bool {
	dia := reg.Mascota.Creado
	if f.FechaInicio != nil && dia.Before(inicioDelDia(*f.FechaInicio)) {
		return false
	}
	if f.FechaFin != nil && !dia.Before(inicioDelDia(*f.FechaFin).AddDate(0, 0, 1)) {
		return false
	}
	if f.Municipio != "" && !strings.Contains(strings.ToLower(reg.Municipio), strings.ToLower(f.Municipio)) {
		return false
	}
	if f.Vacunador != "" && reg.VacunadorID != f.Vacunador {
		return false
	}
	if f.Tipo == string(mascotas.TipoPerro) || f.Tipo == string(mascotas.TipoGato) {
		if string(reg.Mascota.Tipo) != f.Tipo {
			return false
		}
	}
	if f.SoloConAntecedente && !reg.Mascota.AntecedenteVacunal {
		return false
	}
	if f.SoloEsterilizados && !reg.Mascota.Esterilizado {
		return false
	}
	return true
}

func inicioDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clavesOrdenadas[M ~map[string]V, V any](m M) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
