// Package importer carga masiva de responsables y mascotas desde un libro
// xlsx (el formato que usan las secretarías para entregar censos).
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"vetcontrol/internal/domain/mascotas"
	"vetcontrol/internal/domain/responsables"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Columnas esperadas, en orden. La primera fila es el encabezado y se ignora.
//
//	A nombre responsable   G nombre mascota
//	B telefono             H tipo (perro/gato)
//	C finca                I raza
//	D zona                 J color
//	E nombre zona          K antecedente (si/no)
//	F lote vacuna          L esterilizado (si/no)
const columnasEsperadas = 12

type Importador struct {
	responsables *responsables.Service
	mascotas     *mascotas.Service
	log          *zap.Logger
}

func New(responsablesSvc *responsables.Service, mascotasSvc *mascotas.Service, log *zap.Logger) *Importador {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importador{
		responsables: responsablesSvc,
		mascotas:     mascotasSvc,
		log:          log,
	}
}

type ErrorFila struct {
	Fila    int    `json:"fila"`
	Detalle string `json:"detalle"`
}

type Resumen struct {
	FilasProcesadas     int         `json:"filas_procesadas"`
	ResponsablesCreados int         `json:"responsables_creados"`
	MascotasCreadas     int         `json:"mascotas_creadas"`
	Errores             []ErrorFila `json:"errores"`
}

// ImportarPlanilla procesa el libro fila por fila bajo la planilla dada.
// Filas consecutivas con el mismo responsable comparten el registro; una fila
// inválida se reporta y no corta el resto del archivo.
func (i *Importador) ImportarPlanilla(ctx context.Context, planillaID, createdBy string, r io.Reader) (Resumen, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Resumen{}, fmt.Errorf("abriendo xlsx: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return Resumen{}, fmt.Errorf("el libro no tiene hojas")
	}

	filas, err := f.GetRows(hojas[0])
	if err != nil {
		return Resumen{}, fmt.Errorf("leyendo hoja %q: %w", hojas[0], err)
	}

	out := Resumen{Errores: make([]ErrorFila, 0)}
	// nombre responsable -> id ya creado en esta corrida
	creados := map[string]string{}

	for idx, fila := range filas {
		if idx == 0 {
			continue // encabezado
		}
		numFila := idx + 1

		if vacia(fila) {
			continue
		}
		out.FilasProcesadas++

		celda := func(col int) string {
			if col < len(fila) {
				return strings.TrimSpace(fila[col])
			}
			return ""
		}

		nombreResp := celda(0)
		if nombreResp == "" {
			out.Errores = append(out.Errores, ErrorFila{Fila: numFila, Detalle: "nombre de responsable vacío"})
			continue
		}

		respID, ok := creados[claveResponsable(nombreResp, celda(1))]
		if !ok {
			resp, err := i.responsables.Create(ctx, planillaID, createdBy, responsables.CreateInput{
				Nombre:     nombreResp,
				Telefono:   celda(1),
				Finca:      celda(2),
				Zona:       celda(3),
				NombreZona: celda(4),
				LoteVacuna: celda(5),
			})
			if err != nil {
				out.Errores = append(out.Errores, ErrorFila{Fila: numFila, Detalle: "responsable: " + err.Error()})
				continue
			}
			respID = resp.ID
			creados[claveResponsable(nombreResp, celda(1))] = respID
			out.ResponsablesCreados++
		}

		nombreMascota := celda(6)
		if nombreMascota == "" {
			// Fila solo de responsable, válida
			continue
		}

		_, err := i.mascotas.Create(ctx, respID, createdBy, mascotas.CreateInput{
			Nombre:             nombreMascota,
			Tipo:               celda(7),
			Raza:               celda(8),
			Color:              celda(9),
			AntecedenteVacunal: esAfirmativo(celda(10)),
			Esterilizado:       esAfirmativo(celda(11)),
		})
		if err != nil {
			out.Errores = append(out.Errores, ErrorFila{Fila: numFila, Detalle: "mascota: " + err.Error()})
			continue
		}
		out.MascotasCreadas++
	}

	i.log.Info("importación terminada",
		zap.String("planilla_id", planillaID),
		zap.Int("filas", out.FilasProcesadas),
		zap.Int("responsables", out.ResponsablesCreados),
		zap.Int("mascotas", out.MascotasCreadas),
		zap.Int("errores", len(out.Errores)),
	)

	return out, nil
}

func claveResponsable(nombre, telefono string) string {
	return strings.ToLower(nombre) + "|" + telefono
}

func vacia(fila []string) bool {
	for _, c := range fila {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func esAfirmativo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "s", "true", "1", "x":
		return true
	default:
		return false
	}
}
