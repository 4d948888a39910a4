package router

import (
	"database/sql"
	"net/http"

	mem "vetcontrol/internal/adapters/storage/memory"
	pg "vetcontrol/internal/adapters/storage/postgres"
	"vetcontrol/internal/domain/mascotas"
	"vetcontrol/internal/domain/perdidas"
	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/responsables"
	"vetcontrol/internal/domain/usuarios"
	"vetcontrol/internal/importer"
	"vetcontrol/internal/middleware"
	"vetcontrol/internal/ports/auth"
	"vetcontrol/internal/reporting"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		usuariosRepo     usuarios.Repository
		planillasRepo    planillas.Repository
		responsablesRepo responsables.Repository
		mascotasRepo     mascotas.Repository
		perdidasRepo     perdidas.Repository
	)

	if opts.DB != nil {
		usuariosRepo = pg.NewUsuariosRepo(opts.DB)
		planillasRepo = pg.NewPlanillasRepo(opts.DB)
		responsablesRepo = pg.NewResponsablesRepo(opts.DB)
		mascotasRepo = pg.NewMascotasRepo(opts.DB)
		perdidasRepo = pg.NewPerdidasRepo(opts.DB)
	} else {
		usuariosRepo = mem.NewUsuariosRepo()
		planillasRepo = mem.NewPlanillasRepo()
		responsablesRepo = mem.NewResponsablesRepo()
		mascotasRepo = mem.NewMascotasRepo()
		perdidasRepo = mem.NewPerdidasRepo()
	}

	// Services por módulo. Las cascadas van de arriba hacia abajo:
	// planilla -> responsables -> mascotas.
	usuariosSvc := usuarios.NewService(usuariosRepo)
	mascotasSvc := mascotas.NewService(mascotasRepo)
	responsablesSvc := responsables.NewService(responsablesRepo, mascotasSvc)
	planillasSvc := planillas.NewService(planillasRepo, responsablesSvc)
	perdidasSvc := perdidas.NewService(perdidasRepo)

	reportingSvc := reporting.NewService(reporting.Fuente{
		Usuarios:     usuariosRepo,
		Planillas:    planillasRepo,
		Responsables: responsablesRepo,
		Mascotas:     mascotasRepo,
	}, log.Named("reporting"))

	imp := importer.New(responsablesSvc, mascotasSvc, log.Named("importer"))

	// Rutas por módulo
	usuarios.RegisterRoutes(r, usuariosSvc)
	planillas.RegisterRoutes(r, planillasSvc, usuariosSvc)
	responsables.RegisterRoutes(r, responsablesSvc, planillasSvc)
	mascotas.RegisterRoutes(r, mascotasSvc, responsablesSvc)
	perdidas.RegisterRoutes(r, perdidasSvc, planillasSvc)
	reporting.RegisterRoutes(r, reportingSvc)
	importer.RegisterRoutes(r, imp, planillasSvc)

	return r
}
