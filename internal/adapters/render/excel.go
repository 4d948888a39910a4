package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Excel escribe la tabla en un libro xlsx con una sola hoja.
func Excel(t Tabla) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	hoja := "Reporte"
	f.SetSheetName("Sheet1", hoja)

	estiloTitulo, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	estiloCabecera, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2980B9"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    bordesFinos(),
	})
	if err != nil {
		return nil, err
	}
	estiloCelda, err := f.NewStyle(&excelize.Style{Border: bordesFinos()})
	if err != nil {
		return nil, err
	}
	estiloNegrita, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D6EAF8"}},
		Border: bordesFinos(),
	})
	if err != nil {
		return nil, err
	}

	ultimaCol, err := excelize.ColumnNumberToName(len(t.Columnas))
	if err != nil {
		return nil, err
	}

	fila := 1
	if err := f.MergeCell(hoja, "A1", ultimaCol+"1"); err != nil {
		return nil, err
	}
	f.SetCellValue(hoja, "A1", t.Titulo)
	f.SetCellStyle(hoja, "A1", ultimaCol+"1", estiloTitulo)
	fila++

	if t.Subtitulo != "" {
		celda := fmt.Sprintf("A%d", fila)
		if err := f.MergeCell(hoja, celda, fmt.Sprintf("%s%d", ultimaCol, fila)); err != nil {
			return nil, err
		}
		f.SetCellValue(hoja, celda, t.Subtitulo)
		fila++
	}
	fila++ // renglón en blanco

	cabecera := fila
	for i, col := range t.Columnas {
		celda, err := excelize.CoordinatesToCellName(i+1, cabecera)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(hoja, celda, col)
	}
	f.SetCellStyle(hoja, fmt.Sprintf("A%d", cabecera), fmt.Sprintf("%s%d", ultimaCol, cabecera), estiloCabecera)
	fila++

	for _, fl := range t.Filas {
		for i, celda := range fl.Celdas {
			ref, err := excelize.CoordinatesToCellName(i+1, fila)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(hoja, ref, celda)
		}
		estilo := estiloCelda
		if fl.Negrita {
			estilo = estiloNegrita
		}
		f.SetCellStyle(hoja, fmt.Sprintf("A%d", fila), fmt.Sprintf("%s%d", ultimaCol, fila), estilo)
		fila++
	}

	f.SetColWidth(hoja, "A", ultimaCol, 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("generando xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func bordesFinos() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "999999"},
		{Type: "right", Style: 1, Color: "999999"},
		{Type: "top", Style: 1, Color: "999999"},
		{Type: "bottom", Style: 1, Color: "999999"},
	}
}
