package planillas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcontrol/internal/domain/usuarios"
	"vetcontrol/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, usuariosSvc *usuarios.Service) {
	r.Route("/planillas", func(pr chi.Router) {
		// Crear y borrar asigna trabajo: solo administrador
		pr.Post("/", createPlanillaHandler(svc, usuariosSvc))
		pr.Delete("/{planillaID}", deletePlanillaHandler(svc))

		// Listado y detalle según el alcance del rol
		pr.Get("/", listPlanillasHandler(svc, usuariosSvc))
		pr.Get("/{planillaID}", getPlanillaHandler(svc, usuariosSvc))

		pr.Get("/municipios", municipiosHandler(svc))
	})
}

type createPlanillaRequest struct {
	Nombre                    string   `json:"nombre"`
	Municipio                 string   `json:"municipio"`
	UrbanoRural               string   `json:"urbano_rural"`
	CentroPobladoVeredaBarrio string   `json:"centro_poblado_vereda_barrio"`
	Zona                      string   `json:"zona"`
	VacunadorID               string   `json:"vacunador_id"`
	TecnicoID                 string   `json:"tecnico_id"`
	VacunadoresAdicionales    []string `json:"vacunadores_adicionales"`
	TecnicosAdicionales       []string `json:"tecnicos_adicionales"`
}

// planillaResponse incluye los alias que espera la app móvil: usuario,
// asignadoA y asignado_a repiten el username del vacunador principal.
type planillaResponse struct {
	ID                        string    `json:"id"`
	Nombre                    string    `json:"nombre"`
	Municipio                 string    `json:"municipio"`
	UrbanoRural               string    `json:"urbano_rural"`
	CentroPobladoVeredaBarrio string    `json:"centro_poblado_vereda_barrio"`
	Zona                      string    `json:"zona"`
	VacunadorID               string    `json:"vacunador_id"`
	TecnicoID                 string    `json:"tecnico_id,omitempty"`
	VacunadoresAdicionales    []string  `json:"vacunadores_adicionales"`
	TecnicosAdicionales       []string  `json:"tecnicos_adicionales"`
	Creada                    time.Time `json:"creada"`

	Usuario          string   `json:"usuario"`
	AsignadoA        string   `json:"asignadoA"`
	AsignadoASnake   string   `json:"asignado_a"`
	TodosVacunadores []string `json:"todos_vacunadores"`
	TodosTecnicos    []string `json:"todos_tecnicos"`
}

func claimsDeRequest(r *http.Request) (string, usuarios.Rol, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", usuarios.RolDesconocido, false
	}
	return claims.UserID, usuarios.ParseRol(claims.Rol), true
}

func createPlanillaHandler(svc *Service, usuariosSvc *usuarios.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPlanillaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), rol, CreateInput{
			Nombre:                    req.Nombre,
			Municipio:                 req.Municipio,
			UrbanoRural:               req.UrbanoRural,
			CentroPobladoVeredaBarrio: req.CentroPobladoVeredaBarrio,
			Zona:                      req.Zona,
			VacunadorID:               req.VacunadorID,
			TecnicoID:                 req.TecnicoID,
			VacunadoresAdicionales:    req.VacunadoresAdicionales,
			TecnicosAdicionales:       req.TecnicosAdicionales,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "nombre and vacunador_id are required", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPlanillaResponse(r.Context(), usuariosSvc, p))
	}
}

func listPlanillasHandler(svc *Service, usuariosSvc *usuarios.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListVisibles(r.Context(), userID, rol)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]planillaResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlanillaResponse(r.Context(), usuariosSvc, p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPlanillaHandler(svc *Service, usuariosSvc *usuarios.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "planillaID"))
		if err != nil {
			http.Error(w, "planilla not found", http.StatusNotFound)
			return
		}

		if !visible(p, userID, rol) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toPlanillaResponse(r.Context(), usuariosSvc, p))
	}
}

func deletePlanillaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "planillaID"), rol)
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "planilla not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func municipiosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := claimsDeRequest(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		out, err := svc.MunicipiosUnicos(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func visible(p Planilla, userID string, rol usuarios.Rol) bool {
	switch rol {
	case usuarios.RolAdministrador:
		return true
	case usuarios.RolTecnico:
		return p.TieneTecnico(userID)
	case usuarios.RolVacunador:
		return p.TieneVacunador(userID)
	default:
		return false
	}
}

func toPlanillaResponse(ctx context.Context, usuariosSvc *usuarios.Service, p Planilla) planillaResponse {
	// IDs sin usuario local se devuelven tal cual (datos importados).
	username := func(id string) string {
		if id == "" {
			return ""
		}
		if usuariosSvc != nil {
			if v, err := usuariosSvc.GetByID(ctx, id); err == nil {
				return v.Username
			}
		}
		return id
	}

	principal := username(p.VacunadorID)

	vacunadores := make([]string, 0)
	for _, id := range p.TodosVacunadores() {
		vacunadores = append(vacunadores, username(id))
	}
	tecnicos := make([]string, 0)
	for _, id := range p.TodosTecnicos() {
		tecnicos = append(tecnicos, username(id))
	}

	return planillaResponse{
		ID:                        p.ID,
		Nombre:                    p.Nombre,
		Municipio:                 p.Municipio,
		UrbanoRural:               string(p.UrbanoRural),
		CentroPobladoVeredaBarrio: p.CentroPobladoVeredaBarrio,
		Zona:                      p.Zona,
		VacunadorID:               p.VacunadorID,
		TecnicoID:                 p.TecnicoID,
		VacunadoresAdicionales:    p.VacunadoresAdicionales,
		TecnicosAdicionales:       p.TecnicosAdicionales,
		Creada:                    p.Creada,

		Usuario:          principal,
		AsignadoA:        principal,
		AsignadoASnake:   principal,
		TodosVacunadores: vacunadores,
		TodosTecnicos:    tecnicos,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
