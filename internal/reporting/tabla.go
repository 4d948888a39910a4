package reporting

import (
	"strconv"

	"vetcontrol/internal/adapters/render"
)

// Armado de la tabla descargable: una fila por grupo hoja más la fila de
// totales al final. El mismo conjunto de columnas de conteo en todos los
// reportes agrupados.

var columnasConteo = []string{
	"CANINOS URBANO", "FELINOS URBANO", "TOTAL URBANO",
	"CANINOS RURAL", "FELINOS RURAL", "TOTAL RURAL",
	"TOTAL CANINOS", "TOTAL FELINOS", "TOTAL GENERAL",
}

func etiquetaDimension(d Dimension) string {
	switch d {
	case DimensionMunicipio:
		return "MUNICIPIO"
	case DimensionDia:
		return "DÍA"
	case DimensionVacunador:
		return "VACUNADOR"
	default:
		return string(d)
	}
}

func celdasConteo(c Conteo) []string {
	vals := []int{
		c.PerrosUrbano, c.GatosUrbano, c.TotalUrbano,
		c.PerrosRural, c.GatosRural, c.TotalRural,
		c.PerrosTotal, c.GatosTotal, c.Total,
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// Tabla arma el modelo que consumen los renderers de PDF y Excel.
func (r *Resultado) Tabla(titulo, subtitulo, archivo string) render.Tabla {
	dims := r.Dimensiones()

	cols := make([]string, 0, len(dims)+len(columnasConteo))
	for _, d := range dims {
		cols = append(cols, etiquetaDimension(d))
	}
	cols = append(cols, columnasConteo...)

	filas := make([]render.Fila, 0)
	for _, f := range r.Filas() {
		celdas := make([]string, 0, len(cols))
		celdas = append(celdas, f.Claves...)
		celdas = append(celdas, celdasConteo(f.Conteo)...)
		filas = append(filas, render.Fila{Celdas: celdas})
	}

	total := make([]string, 0, len(cols))
	total = append(total, "TOTALES")
	for i := 1; i < len(dims); i++ {
		total = append(total, "")
	}
	total = append(total, celdasConteo(r.TotalGeneral())...)
	filas = append(filas, render.Fila{Celdas: total, Negrita: true})

	return render.Tabla{
		Titulo:        titulo,
		Subtitulo:     subtitulo,
		Columnas:      cols,
		ColumnasGrupo: len(dims),
		Filas:         filas,
		Archivo:       archivo,
	}
}
