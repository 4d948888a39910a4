// Package render produce las salidas descargables de los reportes (PDF y
// Excel) a partir de un modelo tabular común. No conoce el dominio: recibe
// la tabla ya armada.
package render

// Fila es una fila ya formateada de la tabla.
type Fila struct {
	Celdas  []string
	Negrita bool
}

// Tabla es el modelo común que consumen los dos renderers. ColumnasGrupo
// indica cuántas columnas iniciales son de texto (agrupación); el resto se
// tratan como numéricas al repartir anchos.
type Tabla struct {
	Titulo        string
	Subtitulo     string
	Columnas      []string
	ColumnasGrupo int
	Filas         []Fila
	Archivo       string // nombre base sin extensión
}
