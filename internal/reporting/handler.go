package reporting

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vetcontrol/internal/adapters/render"
	"vetcontrol/internal/domain/usuarios"
	"vetcontrol/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reportes", func(rr chi.Router) {
		// Reportes consolidados (solo administrador)
		rr.Get("/municipio-por-dia", reporteFijoHandler(svc, soloAdministrador,
			"REPORTE DE VACUNACIÓN POR MUNICIPIO Y DÍA", "reporte_municipio_por_dia",
			DimensionMunicipio, DimensionDia))
		rr.Get("/dia-por-municipio", reporteFijoHandler(svc, soloAdministrador,
			"REPORTE DE VACUNACIÓN POR DÍA Y MUNICIPIO", "reporte_dia_por_municipio",
			DimensionDia, DimensionMunicipio))

		// Cualquier rol, cada uno ve su alcance
		rr.Get("/vacunacion", reporteFijoHandler(svc, cualquierRol,
			"REPORTE DE VACUNACIÓN POR VACUNADOR Y DÍA", "reporte_vacunacion",
			DimensionVacunador, DimensionDia))

		// Agrupación libre vía ?agrupar=municipio,dia,vacunador (solo administrador)
		rr.Get("/estadistico", reporteEstadisticoHandler(svc))

		// Resumen de jornada del propio usuario
		rr.Get("/vacunador/diario", reporteDiarioHandler(svc))

		// Drill-down y totales globales (solo administrador)
		rr.Get("/arbol", arbolHandler(svc))
		rr.Get("/estadisticas", estadisticasHandler(svc))
		rr.Get("/filtros", filtrosHandler(svc))

		rr.Get("/tablero", tableroHandler(svc))
	})
}

func alcanceDesdeRequest(r *http.Request) (Alcance, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return Alcance{}, false
	}
	return ResolverAlcance(claims.UserID, usuarios.ParseRol(claims.Rol)), true
}

func parseRango(r *http.Request) (Rango, error) {
	var out Rango
	if v := strings.TrimSpace(r.URL.Query().Get("fecha_inicio")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return out, fmt.Errorf("fecha_inicio must be YYYY-MM-DD")
		}
		out.Inicio = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("fecha_fin")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return out, fmt.Errorf("fecha_fin must be YYYY-MM-DD")
		}
		out.Fin = &t
	}
	return out, nil
}

type reporteAgrupadoResponse struct {
	AgrupadoPor  []Dimension `json:"agrupado_por"`
	FechaInicio  string      `json:"fecha_inicio"`
	FechaFin     string      `json:"fecha_fin"`
	Filas        []Fila      `json:"filas"`
	Arbol        *Nodo       `json:"arbol,omitempty"`
	TotalGeneral Conteo      `json:"total_general"`
}

// Acceso por rol de los reportes agrupados.
const (
	cualquierRol      = false
	soloAdministrador = true
)

func reporteFijoHandler(svc *Service, soloAdmin bool, titulo, archivo string, dims ...Dimension) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		servirReporteAgrupado(w, r, svc, soloAdmin, titulo, archivo, dims)
	}
}

func reporteEstadisticoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agrupar := strings.TrimSpace(r.URL.Query().Get("agrupar"))
		if agrupar == "" {
			agrupar = "municipio"
		}
		dims, err := ParseDimensiones(strings.Split(agrupar, ","))
		if err != nil {
			http.Error(w, "agrupar must be a comma list of municipio, dia, vacunador without repeats", http.StatusBadRequest)
			return
		}
		servirReporteAgrupado(w, r, svc, soloAdministrador, "REPORTE ESTADÍSTICO DE VACUNACIÓN", "reporte_estadistico", dims)
	}
}

func servirReporteAgrupado(w http.ResponseWriter, r *http.Request, svc *Service, soloAdmin bool, titulo, archivo string, dims []Dimension) {
	alcance, ok := alcanceDesdeRequest(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if soloAdmin && alcance.Rol() != usuarios.RolAdministrador {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	rango, err := parseRango(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, efectivo, err := svc.ReporteAgrupado(r.Context(), alcance, dims, rango)
	if err != nil {
		errorDeReporte(w, err)
		return
	}

	switch formato(r) {
	case "pdf":
		tabla := res.Tabla(titulo, "Periodo: "+efectivo.String(), archivo)
		b, err := render.PDF(tabla)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		servirArchivo(w, archivo+".pdf", "application/pdf", b)
	case "xlsx":
		tabla := res.Tabla(titulo, "Periodo: "+efectivo.String(), archivo)
		b, err := render.Excel(tabla)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		servirArchivo(w, archivo+".xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
	default:
		out := reporteAgrupadoResponse{
			AgrupadoPor:  res.Dimensiones(),
			FechaInicio:  efectivo.Inicio.Format("2006-01-02"),
			FechaFin:     efectivo.Fin.Format("2006-01-02"),
			Filas:        res.Filas(),
			TotalGeneral: res.TotalGeneral(),
		}
		if r.URL.Query().Get("vista") == "arbol" {
			arbol := res.Arbol()
			out.Arbol = &arbol
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func reporteDiarioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alcance, ok := alcanceDesdeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		fecha := time.Now()
		if v := strings.TrimSpace(r.URL.Query().Get("fecha")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "fecha must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			fecha = t
		}

		out, err := svc.ReporteVacunadorDiario(r.Context(), alcance, fecha)
		if err != nil {
			errorDeReporte(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func arbolHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alcance, ok := alcanceDesdeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if alcance.Rol() != usuarios.RolAdministrador {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		filtros, err := parseFiltrosArbol(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := svc.Arbol(r.Context(), alcance, filtros)
		if err != nil {
			errorDeReporte(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseFiltrosArbol(r *http.Request) (FiltrosArbol, error) {
	q := r.URL.Query()
	var f FiltrosArbol

	if v := strings.TrimSpace(q.Get("fecha_inicio")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("fecha_inicio must be YYYY-MM-DD")
		}
		f.FechaInicio = &t
	}
	if v := strings.TrimSpace(q.Get("fecha_fin")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("fecha_fin must be YYYY-MM-DD")
		}
		f.FechaFin = &t
	}
	f.Municipio = strings.TrimSpace(q.Get("municipio"))
	f.Vacunador = strings.TrimSpace(q.Get("vacunador"))
	f.Tipo = strings.TrimSpace(q.Get("tipo"))
	f.SoloConAntecedente = q.Get("con_antecedente") == "true"
	f.SoloEsterilizados = q.Get("esterilizados") == "true"
	return f, nil
}

func estadisticasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alcance, ok := alcanceDesdeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if alcance.Rol() != usuarios.RolAdministrador {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		out, err := svc.EstadisticasGenerales(r.Context())
		if err != nil {
			errorDeReporte(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func filtrosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alcance, ok := alcanceDesdeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if alcance.Rol() != usuarios.RolAdministrador {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		out, err := svc.OpcionesFiltros(r.Context())
		if err != nil {
			errorDeReporte(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func tableroHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alcance, ok := alcanceDesdeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		out, err := svc.Tablero(r.Context(), alcance)
		if err != nil {
			errorDeReporte(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func formato(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get("formato")))
}

func servirArchivo(w http.ResponseWriter, nombre, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func errorDeReporte(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrDimensionInvalida), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo,
// igual que en el resto del proyecto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
