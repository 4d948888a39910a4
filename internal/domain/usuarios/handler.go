package usuarios

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcontrol/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/usuarios", func(ur chi.Router) {
		// Gestión de cuentas (solo administrador)
		ur.Post("/", createUsuarioHandler(svc))
		ur.Get("/", listUsuariosHandler(svc))

		// Perfil (administrador o el propio usuario)
		ur.Get("/{usuarioID}", getUsuarioHandler(svc))
	})

	// Perfil del usuario autenticado
	r.Get("/me", meHandler(svc))
}

type createUsuarioRequest struct {
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
}

type usuarioResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Nombre         string    `json:"nombre"`
	Apellido       string    `json:"apellido"`
	NombreCompleto string    `json:"nombre_completo"`
	Rol            string    `json:"rol"`
	Creado         time.Time `json:"creado"`
}

func esAdmin(r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	return ok && ParseRol(claims.Rol) == RolAdministrador
}

func createUsuarioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if ParseRol(claims.Rol) != RolAdministrador {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createUsuarioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), CreateInput{
			Username: req.Username,
			Nombre:   req.Nombre,
			Apellido: req.Apellido,
			Rol:      req.Rol,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrDuplicado):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "username and a valid rol are required", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toUsuarioResponse(v))
	}
}

func listUsuariosHandler(svc *Service) http.HandlerFunc {
	// Con ?rol= filtra por rol, ?username= busca exacto; sin query devuelve todos.
	return func(w http.ResponseWriter, r *http.Request) {
		if !esAdmin(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if username := strings.TrimSpace(r.URL.Query().Get("username")); username != "" {
			v, err := svc.GetByUsername(r.Context(), username)
			if err != nil {
				http.Error(w, "usuario not found", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, []usuarioResponse{toUsuarioResponse(v)})
			return
		}

		var (
			items []Veterinario
			err   error
		)
		if rol := strings.TrimSpace(r.URL.Query().Get("rol")); rol != "" {
			items, err = svc.ListByRol(r.Context(), Rol(rol))
		} else {
			items, err = svc.ListAll(r.Context())
		}
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "unknown rol", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]usuarioResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toUsuarioResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getUsuarioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		usuarioID := chi.URLParam(r, "usuarioID")
		if ParseRol(claims.Rol) != RolAdministrador && claims.UserID != usuarioID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		v, err := svc.GetByID(r.Context(), usuarioID)
		if err != nil {
			http.Error(w, "usuario not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toUsuarioResponse(v))
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// Usuarios del verificador externo pueden no tener fila local todavía.
			writeJSON(w, http.StatusOK, usuarioResponse{
				ID:       claims.UserID,
				Username: claims.Username,
				Rol:      claims.Rol,
			})
			return
		}
		writeJSON(w, http.StatusOK, toUsuarioResponse(v))
	}
}

func toUsuarioResponse(v Veterinario) usuarioResponse {
	return usuarioResponse{
		ID:             v.ID,
		Username:       v.Username,
		Nombre:         v.Nombre,
		Apellido:       v.Apellido,
		NombreCompleto: v.NombreCompleto(),
		Rol:            string(v.Rol),
		Creado:         v.Creado,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
