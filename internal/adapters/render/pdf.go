package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF dibuja la tabla en una página A4 horizontal. Las columnas de conteo
// comparten el ancho sobrante después de las columnas de agrupación.
func PDF(t Tabla) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(t.Titulo), "", 1, "C", false, 0, "")
	if t.Subtitulo != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(t.Subtitulo), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	anchos := anchosColumnas(t, 277) // A4 horizontal menos márgenes

	cabecera := func() {
		pdf.SetFont("Arial", "B", 7)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range t.Columnas {
			pdf.CellFormat(anchos[i], 7, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	cabecera()

	for _, fila := range t.Filas {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			cabecera()
		}
		if fila.Negrita {
			pdf.SetFont("Arial", "B", 7)
			pdf.SetFillColor(214, 234, 248)
		} else {
			pdf.SetFont("Arial", "", 7)
			pdf.SetFillColor(255, 255, 255)
		}
		for i, celda := range fila.Celdas {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(anchos[i], 6, tr(celda), "1", 0, align, fila.Negrita, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generando pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func anchosColumnas(t Tabla, total float64) []float64 {
	n := len(t.Columnas)
	anchos := make([]float64, n)
	if n == 0 {
		return anchos
	}

	// Las columnas de agrupación (texto) llevan más ancho que las numéricas.
	grupos := t.ColumnasGrupo
	if grupos < 1 {
		grupos = 1
	}
	if grupos > n {
		grupos = n
	}
	anchoGrupo := 38.0
	resto := total - float64(grupos)*anchoGrupo
	numericas := n - grupos
	if numericas < 1 {
		anchoGrupo = total / float64(n)
		resto = 0
		numericas = 0
	}

	for i := range anchos {
		if i < grupos {
			anchos[i] = anchoGrupo
		} else {
			anchos[i] = resto / float64(numericas)
		}
	}
	return anchos
}
