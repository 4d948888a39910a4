package perdidas

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/usuarios"
	"vetcontrol/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, planillasSvc *planillas.Service) {
	r.Route("/perdidas", func(pr chi.Router) {
		// Registro offline-first: reenviar con el mismo uuid_local no duplica
		pr.Post("/", createPerdidaHandler(svc))
		pr.Get("/", listPerdidasHandler(svc))

		pr.Get("/estadisticas", estadisticasPerdidasHandler(svc, planillasSvc))
	})
}

type createPerdidaRequest struct {
	Cantidad     int      `json:"cantidad"`
	LoteVacuna   string   `json:"lote_vacuna"`
	Motivo       string   `json:"motivo"`
	FotoPath     string   `json:"foto_path"`
	Latitud      *float64 `json:"latitud"`
	Longitud     *float64 `json:"longitud"`
	FechaPerdida string   `json:"fecha_perdida"` // RFC3339 opcional
	UUIDLocal    string   `json:"uuid_local"`
}

type perdidaResponse struct {
	ID            string    `json:"id"`
	RegistradoPor string    `json:"registrado_por"`
	Cantidad      int       `json:"cantidad"`
	LoteVacuna    string    `json:"lote_vacuna"`
	Motivo        string    `json:"motivo,omitempty"`
	FotoPath      string    `json:"foto_path,omitempty"`
	Latitud       *float64  `json:"latitud,omitempty"`
	Longitud      *float64  `json:"longitud,omitempty"`
	FechaRegistro time.Time `json:"fecha_registro"`
	FechaPerdida  time.Time `json:"fecha_perdida"`
	Sincronizado  bool      `json:"sincronizado"`
	UUIDLocal     string    `json:"uuid_local"`
}

type estadisticasResponse struct {
	TotalRegistros       int            `json:"total_registros"`
	TotalVacunasPerdidas int            `json:"total_vacunas_perdidas"`
	PerdidasPorLote      map[string]int `json:"perdidas_por_lote"`
}

func claimsDeRequest(r *http.Request) (string, usuarios.Rol, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", usuarios.RolDesconocido, false
	}
	return claims.UserID, usuarios.ParseRol(claims.Rol), true
}

func createPerdidaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPerdidaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var fp *time.Time
		if strings.TrimSpace(req.FechaPerdida) != "" {
			t, err := time.Parse(time.RFC3339, req.FechaPerdida)
			if err != nil {
				http.Error(w, "fecha_perdida must be RFC3339", http.StatusBadRequest)
				return
			}
			fp = &t
		}

		p, err := svc.Create(r.Context(), userID, CreateInput{
			Cantidad:     req.Cantidad,
			LoteVacuna:   req.LoteVacuna,
			Motivo:       req.Motivo,
			FotoPath:     req.FotoPath,
			Latitud:      req.Latitud,
			Longitud:     req.Longitud,
			FechaPerdida: fp,
			UUIDLocal:    req.UUIDLocal,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "cantidad must be positive and lote_vacuna is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPerdidaResponse(p))
	}
}

func listPerdidasHandler(svc *Service) http.HandlerFunc {
	// Cada usuario ve solo sus propios registros de pérdida.
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUsuario(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]perdidaResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPerdidaResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// estadisticasPerdidasHandler agrega según el rol: administrador todo,
// técnico el personal de sus planillas, vacunador solo lo propio.
func estadisticasPerdidasHandler(svc *Service, planillasSvc *planillas.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		visible, err := predicadoVisibilidad(r, planillasSvc, userID, rol)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if visible == nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		stats, err := svc.Estadisticas(r.Context(), visible)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, estadisticasResponse{
			TotalRegistros:       stats.TotalRegistros,
			TotalVacunasPerdidas: stats.TotalVacunasPerdidas,
			PerdidasPorLote:      stats.PerdidasPorLote,
		})
	}
}

func predicadoVisibilidad(r *http.Request, planillasSvc *planillas.Service, userID string, rol usuarios.Rol) (func(string) bool, error) {
	switch rol {
	case usuarios.RolAdministrador:
		return func(string) bool { return true }, nil
	case usuarios.RolVacunador:
		return func(registradoPor string) bool { return registradoPor == userID }, nil
	case usuarios.RolTecnico:
		// Unión del personal de sus planillas, él incluido.
		visibles, err := planillasSvc.ListVisibles(r.Context(), userID, rol)
		if err != nil {
			return nil, err
		}
		personal := map[string]struct{}{userID: {}}
		for _, p := range visibles {
			for _, id := range p.TodosVacunadores() {
				personal[id] = struct{}{}
			}
			for _, id := range p.TodosTecnicos() {
				personal[id] = struct{}{}
			}
		}
		return func(registradoPor string) bool {
			_, ok := personal[registradoPor]
			return ok
		}, nil
	default:
		return nil, nil
	}
}

func toPerdidaResponse(p RegistroPerdida) perdidaResponse {
	return perdidaResponse{
		ID:            p.ID,
		RegistradoPor: p.RegistradoPor,
		Cantidad:      p.Cantidad,
		LoteVacuna:    p.LoteVacuna,
		Motivo:        p.Motivo,
		FotoPath:      p.FotoPath,
		Latitud:       p.Latitud,
		Longitud:      p.Longitud,
		FechaRegistro: p.FechaRegistro,
		FechaPerdida:  p.FechaPerdida,
		Sincronizado:  p.Sincronizado,
		UUIDLocal:     p.UUIDLocal,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
