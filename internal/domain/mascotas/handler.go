package mascotas

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcontrol/internal/domain/responsables"
	"vetcontrol/internal/domain/usuarios"
	"vetcontrol/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, responsablesSvc *responsables.Service) {
	// Alta y listado cuelgan del responsable
	r.Route("/responsables/{responsableID}/mascotas", func(mr chi.Router) {
		mr.Post("/", createMascotaHandler(svc, responsablesSvc))
		mr.Get("/", listMascotasHandler(svc, responsablesSvc))
	})

	r.Route("/mascotas", func(mr chi.Router) {
		// Mapa de cobertura (solo administrador)
		mr.Get("/georreferenciadas", georreferenciadasHandler(svc))

		mr.Get("/{mascotaID}", getMascotaHandler(svc))
		mr.Patch("/{mascotaID}", updateMascotaHandler(svc))
		mr.Delete("/{mascotaID}", deleteMascotaHandler(svc))

		// Corrección de fecha (administrador o técnico)
		mr.Put("/{mascotaID}/fecha-creacion", updateFechaHandler(svc))
	})
}

type createMascotaRequest struct {
	Nombre             string   `json:"nombre"`
	Tipo               string   `json:"tipo"`
	Raza               string   `json:"raza"`
	Color              string   `json:"color"`
	AntecedenteVacunal bool     `json:"antecedente_vacunal"`
	Esterilizado       bool     `json:"esterilizado"`
	Latitud            *float64 `json:"latitud"`
	Longitud           *float64 `json:"longitud"`
	FotoPath           string   `json:"foto_path"`
}

type updateMascotaRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Nombre             *string `json:"nombre"`
	Tipo               *string `json:"tipo"`
	Raza               *string `json:"raza"`
	Color              *string `json:"color"`
	AntecedenteVacunal *bool   `json:"antecedente_vacunal"`
	Esterilizado       *bool   `json:"esterilizado"`
}

type mascotaResponse struct {
	ID                 string    `json:"id"`
	Nombre             string    `json:"nombre"`
	Tipo               string    `json:"tipo"`
	Raza               string    `json:"raza"`
	Color              string    `json:"color"`
	AntecedenteVacunal bool      `json:"antecedente_vacunal"`
	Esterilizado       bool      `json:"esterilizado"`
	ResponsableID      string    `json:"responsable_id"`
	Latitud            *float64  `json:"latitud,omitempty"`
	Longitud           *float64  `json:"longitud,omitempty"`
	FotoPath           string    `json:"foto_path,omitempty"`
	CreatedBy          string    `json:"created_by"`
	Creado             time.Time `json:"creado"`
}

func claimsDeRequest(r *http.Request) (string, usuarios.Rol, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", usuarios.RolDesconocido, false
	}
	return claims.UserID, usuarios.ParseRol(claims.Rol), true
}

func createMascotaHandler(svc *Service, responsablesSvc *responsables.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		responsableID := chi.URLParam(r, "responsableID")
		if _, err := responsablesSvc.GetByID(r.Context(), responsableID); err != nil {
			http.Error(w, "responsable not found", http.StatusNotFound)
			return
		}

		var req createMascotaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), responsableID, userID, CreateInput{
			Nombre:             req.Nombre,
			Tipo:               req.Tipo,
			Raza:               req.Raza,
			Color:              req.Color,
			AntecedenteVacunal: req.AntecedenteVacunal,
			Esterilizado:       req.Esterilizado,
			Latitud:            req.Latitud,
			Longitud:           req.Longitud,
			FotoPath:           req.FotoPath,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "nombre is required and tipo must be perro or gato", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMascotaResponse(m))
	}
}

func listMascotasHandler(svc *Service, responsablesSvc *responsables.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		responsableID := chi.URLParam(r, "responsableID")
		if _, err := responsablesSvc.GetByID(r.Context(), responsableID); err != nil {
			http.Error(w, "responsable not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByResponsable(r.Context(), responsableID, userID, rol)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]mascotaResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMascotaResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMascotaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "mascotaID"))
		if err != nil {
			http.Error(w, "mascota not found", http.StatusNotFound)
			return
		}

		if !puedeEditar(m, userID, rol) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toMascotaResponse(m))
	}
}

func updateMascotaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateMascotaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "mascotaID"), userID, rol, UpdateInput{
			Nombre:             req.Nombre,
			Tipo:               req.Tipo,
			Raza:               req.Raza,
			Color:              req.Color,
			AntecedenteVacunal: req.AntecedenteVacunal,
			Esterilizado:       req.Esterilizado,
		})
		if err != nil {
			errorDeMascota(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMascotaResponse(m))
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

		m, err := svc.UpdateFechaCreacion(r.Context(), chi.URLParam(r, "mascotaID"), rol, fecha)
		if err != nil {
			errorDeMascota(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMascotaResponse(m))
	}
}

func deleteMascotaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "mascotaID"), userID, rol); err != nil {
			errorDeMascota(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func georreferenciadasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rol, ok := claimsDeRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if rol != usuarios.RolAdministrador {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListGeoreferenciadas(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]mascotaResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMascotaResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func errorDeMascota(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "mascota not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMascotaResponse(m Mascota) mascotaResponse {
	return mascotaResponse{
		ID:                 m.ID,
		Nombre:             m.Nombre,
		Tipo:               string(m.Tipo),
		Raza:               m.Raza,
		Color:              m.Color,
		AntecedenteVacunal: m.AntecedenteVacunal,
		Esterilizado:       m.Esterilizado,
		ResponsableID:      m.ResponsableID,
		Latitud:            m.Latitud,
		Longitud:           m.Longitud,
		FotoPath:           m.FotoPath,
		CreatedBy:          m.CreatedBy,
		Creado:             m.Creado,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
