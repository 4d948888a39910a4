package reporting

import (
	"errors"
	"sort"
	"strings"
	"time"

	"vetcontrol/internal/domain/mascotas"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrDimensionInvalida = errors.New("unknown grouping dimension")
)

// SinEspecificar agrupa registros con valores de dimensión faltantes.
// Un dato malo no aborta el reporte; cae en este bucket.
const SinEspecificar = "Sin especificar"

// Dimension identifica un eje de agrupación.
type Dimension string

const (
	DimensionMunicipio Dimension = "municipio"
	DimensionDia       Dimension = "dia"
	DimensionVacunador Dimension = "vacunador"
)

// ParseDimensiones valida una lista de 1 a 3 dimensiones sin repetidos.
// Dimensiones desconocidas se rechazan antes de agregar nada.
func ParseDimensiones(in []string) ([]Dimension, error) {
	if len(in) < 1 || len(in) > 3 {
		return nil, ErrDimensionInvalida
	}

	seen := map[Dimension]struct{}{}
	out := make([]Dimension, 0, len(in))
	for _, raw := range in {
		d := Dimension(strings.ToLower(strings.TrimSpace(raw)))
		switch d {
		case DimensionMunicipio, DimensionDia, DimensionVacunador:
		default:
			return nil, ErrDimensionInvalida
		}
		if _, ok := seen[d]; ok {
			return nil, ErrDimensionInvalida
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// RegistroAnimal es la fila ya filtrada por alcance que consume el motor.
type RegistroAnimal struct {
	Municipio string
	Dia       time.Time
	Vacunador string

	Tipo mascotas.Tipo
	Zona Zona

	AntecedenteVacunal bool
	Esterilizado       bool
}

// Conteo son los contadores de un grupo (o subtotal, o total general).
type Conteo struct {
	PerrosUrbano int `json:"perros_urbano"`
	PerrosRural  int `json:"perros_rural"`
	PerrosTotal  int `json:"perros_total"`

	GatosUrbano int `json:"gatos_urbano"`
	GatosRural  int `json:"gatos_rural"`
	GatosTotal  int `json:"gatos_total"`

	TotalUrbano int `json:"total_urbano"`
	TotalRural  int `json:"total_rural"`
	Total       int `json:"total"`
}

// sumar incrementa los contadores para un registro.
// Política de especies: un tipo que no sea perro ni gato cuenta en los
// totales por zona y en el total general, pero no en las filas de especie.
// Se aplica igual en todos los reportes (el histórico era inconsistente).
func (c *Conteo) sumar(tipo mascotas.Tipo, zona Zona) {
	urbana := zona == ZonaUrbana

	switch tipo {
	case mascotas.TipoPerro:
		c.PerrosTotal++
		if urbana {
			c.PerrosUrbano++
		} else {
			c.PerrosRural++
		}
	case mascotas.TipoGato:
		c.GatosTotal++
		if urbana {
			c.GatosUrbano++
		} else {
			c.GatosRural++
		}
	}

	if urbana {
		c.TotalUrbano++
	} else {
		c.TotalRural++
	}
	c.Total++
}

// nodo es el trie de contadores: cada registro incrementa su hoja y todos sus
// ancestros, así los subtotales cuadran por construcción.
type nodo struct {
	conteo Conteo
	hijos  map[string]*nodo
}

func nuevoNodo() *nodo {
	return &nodo{hijos: map[string]*nodo{}}
}

// Acumulador hace la pasada única sobre el stream de registros.
// No ordena nada durante la acumulación; el orden se decide al serializar.
type Acumulador struct {
	dims []Dimension
	raiz *nodo
}

func NuevoAcumulador(dims []Dimension) (*Acumulador, error) {
	if len(dims) < 1 || len(dims) > 3 {
		return nil, ErrDimensionInvalida
	}
	for _, d := range dims {
		switch d {
		case DimensionMunicipio, DimensionDia, DimensionVacunador:
		default:
			return nil, ErrDimensionInvalida
		}
	}
	return &Acumulador{dims: dims, raiz: nuevoNodo()}, nil
}

// Agregar cuenta un registro en la hoja de su key-path y en cada ancestro.
func (a *Acumulador) Agregar(reg RegistroAnimal) {
	n := a.raiz
	n.conteo.sumar(reg.Tipo, reg.Zona)

	for _, d := range a.dims {
		clave := claveDimension(reg, d)
		hijo, ok := n.hijos[clave]
		if !ok {
			hijo = nuevoNodo()
			n.hijos[clave] = hijo
		}
		hijo.conteo.sumar(reg.Tipo, reg.Zona)
		n = hijo
	}
}

// Resultado congela el acumulador para serializar.
func (a *Acumulador) Resultado() *Resultado {
	return &Resultado{dims: a.dims, raiz: a.raiz}
}

// Agregar es la conveniencia de una pasada sobre un slice ya cargado.
func Agregar(regs []RegistroAnimal, dims []Dimension) (*Resultado, error) {
	acc, err := NuevoAcumulador(dims)
	if err != nil {
		return nil, err
	}
	for _, reg := range regs {
		acc.Agregar(reg)
	}
	return acc.Resultado(), nil
}

func claveDimension(reg RegistroAnimal, d Dimension) string {
	switch d {
	case DimensionMunicipio:
		if strings.TrimSpace(reg.Municipio) == "" {
			return SinEspecificar
		}
		return reg.Municipio
	case DimensionDia:
		if reg.Dia.IsZero() {
			return SinEspecificar
		}
		// ISO: el orden lexicográfico es el cronológico
		return reg.Dia.Format("2006-01-02")
	case DimensionVacunador:
		if strings.TrimSpace(reg.Vacunador) == "" {
			return SinEspecificar
		}
		return reg.Vacunador
	default:
		return SinEspecificar
	}
}

// Resultado es la salida del motor: un solo conteo, dos presentaciones.
type Resultado struct {
	dims []Dimension
	raiz *nodo
}

func (r *Resultado) Dimensiones() []Dimension { return r.dims }

// TotalGeneral es el conteo de la raíz.
func (r *Resultado) TotalGeneral() Conteo { return r.raiz.conteo }

// Nodo es la vista anidada para drill-down.
type Nodo struct {
	Clave  string `json:"clave"`
	Conteo Conteo `json:"conteo"`
	Hijos  []Nodo `json:"hijos,omitempty"`
}

// Arbol serializa el trie con claves ordenadas ascendente en cada nivel.
func (r *Resultado) Arbol() Nodo {
	return exportarNodo("", r.raiz)
}

func exportarNodo(clave string, n *nodo) Nodo {
	out := Nodo{Clave: clave, Conteo: n.conteo}
	if len(n.hijos) == 0 {
		return out
	}

	claves := make([]string, 0, len(n.hijos))
	for k := range n.hijos {
		claves = append(claves, k)
	}
	sort.Strings(claves)

	out.Hijos = make([]Nodo, 0, len(claves))
	for _, k := range claves {
		out.Hijos = append(out.Hijos, exportarNodo(k, n.hijos[k]))
	}
	return out
}

// Fila es la vista plana: una fila por grupo más interno.
type Fila struct {
	Claves []string `json:"claves"` // una por dimensión, en orden
	Conteo Conteo   `json:"conteo"`
}

// Filas aplana las hojas en orden determinístico (ordenado en cada nivel).
// El total general va aparte (TotalGeneral); la fila de totales es cosa del
// renderer.
func (r *Resultado) Filas() []Fila {
	out := make([]Fila, 0)
	aplanar(r.raiz, nil, len(r.dims), &out)
	return out
}

func aplanar(n *nodo, prefijo []string, profundidad int, out *[]Fila) {
	if profundidad == 0 {
		claves := make([]string, len(prefijo))
		copy(claves, prefijo)
		*out = append(*out, Fila{Claves: claves, Conteo: n.conteo})
		return
	}

	claves := make([]string, 0, len(n.hijos))
	for k := range n.hijos {
		claves = append(claves, k)
	}
	sort.Strings(claves)

	for _, k := range claves {
		aplanar(n.hijos[k], append(prefijo, k), profundidad-1, out)
	}
}
