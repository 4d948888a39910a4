package render

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func tablaDePrueba() Tabla {
	return Tabla{
		Titulo:        "Reporte por municipio",
		Subtitulo:     "01/03/2026 - 05/03/2026",
		Columnas:      []string{"MUNICIPIO", "CANINOS URBANO", "FELINOS URBANO", "TOTAL"},
		ColumnasGrupo: 1,
		Filas: []Fila{
			{Celdas: []string{"Pitalito", "1", "0", "1"}},
			{Celdas: []string{"Rivera", "2", "1", "3"}},
			{Celdas: []string{"TOTALES", "3", "1", "4"}, Negrita: true},
		},
		Archivo: "reporte_municipio",
	}
}

func TestExcel(t *testing.T) {
	b, err := Excel(tablaDePrueba())
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("libro vacío")
	}

	// El libro debe poder reabrirse y conservar título y celdas
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if hojas := f.GetSheetList(); len(hojas) != 1 || hojas[0] != "Reporte" {
		t.Fatalf("hojas = %v", hojas)
	}
	titulo, err := f.GetCellValue("Reporte", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if titulo != "Reporte por municipio" {
		t.Fatalf("titulo = %q", titulo)
	}
	total, err := f.GetCellValue("Reporte", "D7")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if total != "4" {
		t.Fatalf("total general = %q", total)
	}
}

func TestPDF(t *testing.T) {
	b, err := PDF(tablaDePrueba())
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("salida sin cabecera PDF")
	}
}

func TestExcel_SinSubtitulo(t *testing.T) {
	tabla := tablaDePrueba()
	tabla.Subtitulo = ""

	b, err := Excel(tabla)
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	// Sin subtítulo la cabecera sube un renglón
	cab, err := f.GetCellValue("Reporte", "A3")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if cab != "MUNICIPIO" {
		t.Fatalf("cabecera = %q", cab)
	}
}
