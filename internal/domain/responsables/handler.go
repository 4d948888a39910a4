package responsables

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
	// Alta y listado cuelgan de la planilla
	r.Route("/planillas/{planillaID}/responsables", func(pr chi.Router) {
		pr.Post("/", createResponsableHandler(svc, planillasSvc))
		pr.Get("/", listResponsablesHandler(svc, planillasSvc))
	})

	r.Route("/responsables/{responsableID}", func(rr chi.Router) {
		rr.Get("/", getResponsableHandler(svc))
		rr.Patch("/", updateResponsableHandler(svc))
		rr.Delete("/", deleteResponsableHandler(svc))

		// Corrección de fecha (administrador o técnico)
		rr.Put("/fecha-creacion", updateFechaHandler(svc))
	})
}

type createResponsableRequest struct {
	Nombre     string `json:"nombre"`
	Telefono   string `json:"telefono"`
	Finca      string `json:"finca"`
	Zona       string `json:"zona"`
	NombreZona string `json:"nombre_zona"`
	LoteVacuna string `json:"lote_vacuna"`
}

type updateResponsableRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Nombre     *string `json:"nombre"`
	Telefono   *string `json:"telefono"`
	Finca      *string `json:"finca"`
	Zona       *string `json:"zona"`
	NombreZona *string `json:"nombre_zona"`
	LoteVacuna *string `json:"lote_vacuna"`
}

type responsableResponse struct {
	ID         string    `json:"id"`
	Nombre     string    `json:"nombre"`
	Telefono   string    `json:"telefono"`
	Finca      string    `json:"finca"`
	PlanillaID string    `json:"planilla_id"`
	Zona       string    `json:"zona"`
	NombreZona string    `json:"nombre_zona"`
	LoteVacuna string    `json:"lote_vacuna"`
	CreatedBy  string    `json:"created_by"`
	Creado     time.Time `json:"creado"`
}

func claimsDeRequest(r *http.Request) (string, usuarios.Rol, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", usuarios.RolDesconocido, false
	}
	return claims.UserID, usuarios.ParseRol(claims.Rol), true
}

func planillaAccesible(r *http.Request, planillasSvc *planillas.Service, planillaID, userID string, rol usuarios.Rol) (bool, bool) {
	p, err := planillasSvc.GetByID(r.Context(), planillaID)
	if err != nil {
		return false, false
	}

	switch rol {
	case usuarios.RolAdministrador:
		return true, true
	case usuarios.RolTecnico:
		return true, p.TieneTecnico(userID)
	case usuarios.RolVacunador:
		return true, p.TieneVacunador(userID)
	default:
		return true, false
	}
}

func createResponsableHandler(svc *Service, planillasSvc *planillas.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planillaID := chi.URLParam(r, "planillaID")
		existe, permitido := planillaAccesible(r, planillasSvc, planillaID, userID, rol)
		if !existe {
			http.Error(w, "planilla not found", http.StatusNotFound)
			return
		}
		if !permitido {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createResponsableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		resp, err := svc.Create(r.Context(), planillaID, userID, CreateInput{
			Nombre:     req.Nombre,
			Telefono:   req.Telefono,
			Finca:      req.Finca,
			Zona:       req.Zona,
			NombreZona: req.NombreZona,
			LoteVacuna: req.LoteVacuna,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "nombre is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toResponsableResponse(resp))
	}
}

func listResponsablesHandler(svc *Service, planillasSvc *planillas.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planillaID := chi.URLParam(r, "planillaID")
		existe, permitido := planillaAccesible(r, planillasSvc, planillaID, userID, rol)
		if !existe {
			http.Error(w, "planilla not found", http.StatusNotFound)
			return
		}
		if !permitido {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByPlanilla(r.Context(), planillaID, userID, rol)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]responsableResponse, 0, len(items))
		for _, resp := range items {
			out = append(out, toResponsableResponse(resp))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getResponsableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		resp, err := svc.GetByID(r.Context(), chi.URLParam(r, "responsableID"))
		if err != nil {
			http.Error(w, "responsable not found", http.StatusNotFound)
			return
		}

		if !puedeEditar(resp, userID, rol) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toResponsableResponse(resp))
	}
}

func updateResponsableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateResponsableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		resp, err := svc.Update(r.Context(), chi.URLParam(r, "responsableID"), userID, rol, UpdateInput{
			Nombre:     req.Nombre,
			Telefono:   req.Telefono,
			Finca:      req.Finca,
			Zona:       req.Zona,
			NombreZona: req.NombreZona,
			LoteVacuna: req.LoteVacuna,
		})
		if err != nil {
			errorDeResponsable(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponsableResponse(resp))
	}
}

type updateFechaRequest struct {
	FechaCreacion string `json:"fecha_creacion"` // YYYY-MM-DD o RFC3339
}

func updateFechaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateFechaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		fecha, err := parseFecha(req.FechaCreacion)
		if err != nil {
			http.Error(w, "fecha_creacion must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		resp, err := svc.UpdateFechaCreacion(r.Context(), chi.URLParam(r, "responsableID"), rol, fecha)
		if err != nil {
			errorDeResponsable(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponsableResponse(resp))
	}
}

func deleteResponsableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "responsableID"), userID, rol); err != nil {
			errorDeResponsable(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func errorDeResponsable(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "responsable not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponsableResponse(r Responsable) responsableResponse {
	return responsableResponse{
		ID:         r.ID,
		Nombre:     r.Nombre,
		Telefono:   r.Telefono,
		Finca:      r.Finca,
		PlanillaID: r.PlanillaID,
		Zona:       r.Zona,
		NombreZona: r.NombreZona,
		LoteVacuna: r.LoteVacuna,
		CreatedBy:  r.CreatedBy,
		Creado:     r.Creado,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
