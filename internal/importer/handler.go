package importer

import (
	"encoding/json"
	"net/http"
	"strings"

	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/usuarios"
	"vetcontrol/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const maxArchivoImport = 20 << 20 // 20 MiB

func RegisterRoutes(r chi.Router, imp *Importador, planillasSvc *planillas.Service) {
	// Carga masiva (solo administrador)
	r.Post("/planillas/{planillaID}/importar", importarHandler(imp, planillasSvc))
}

func importarHandler(imp *Importador, planillasSvc *planillas.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if usuarios.ParseRol(claims.Rol) != usuarios.RolAdministrador {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		planillaID := chi.URLParam(r, "planillaID")
		if _, err := planillasSvc.GetByID(r.Context(), planillaID); err != nil {
			http.Error(w, "planilla not found", http.StatusNotFound)
			return
		}

		if err := r.ParseMultipartForm(maxArchivoImport); err != nil {
			http.Error(w, "expected multipart form with an archivo field", http.StatusBadRequest)
			return
		}
		archivo, _, err := r.FormFile("archivo")
		if err != nil {
			http.Error(w, "archivo field is required", http.StatusBadRequest)
			return
		}
		defer archivo.Close()

		resumen, err := imp.ImportarPlanilla(r.Context(), planillaID, claims.UserID, archivo)
		if err != nil {
			http.Error(w, "could not read xlsx file", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resumen)
	}
}
