package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vetcontrol/internal/domain/mascotas"
	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/responsables"
	"vetcontrol/internal/domain/usuarios"
)

// -------------------------
// Repos de prueba (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testUsuarios struct{ items []usuarios.Veterinario }

func (r *testUsuarios) Create(ctx context.Context, v usuarios.Veterinario) error { return nil }
func (r *testUsuarios) GetByID(ctx context.Context, id string) (usuarios.Veterinario, error) {
	for _, v := range r.items {
		if v.ID == id {
			return v, nil
		}
	}
	return usuarios.Veterinario{}, errRepoNotFound
}
func (r *testUsuarios) GetByUsername(ctx context.Context, username string) (usuarios.Veterinario, error) {
	for _, v := range r.items {
		if v.Username == username {
			return v, nil
		}
	}
	return usuarios.Veterinario{}, errRepoNotFound
}
func (r *testUsuarios) ListByRol(ctx context.Context, rol usuarios.Rol) ([]usuarios.Veterinario, error) {
	out := make([]usuarios.Veterinario, 0)
	for _, v := range r.items {
		if v.Rol == rol {
			out = append(out, v)
		}
	}
	return out, nil
}
func (r *testUsuarios) ListAll(ctx context.Context) ([]usuarios.Veterinario, error) {
	return r.items, nil
}

type testPlanillas struct{ items []planillas.Planilla }

func (r *testPlanillas) Create(ctx context.Context, p planillas.Planilla) error { return nil }
func (r *testPlanillas) GetByID(ctx context.Context, id string) (planillas.Planilla, error) {
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return planillas.Planilla{}, errRepoNotFound
}
func (r *testPlanillas) ListAll(ctx context.Context) ([]planillas.Planilla, error) {
	return r.items, nil
}
func (r *testPlanillas) Delete(ctx context.Context, id string) error { return nil }

type testResponsables struct{ items []responsables.Responsable }

func (r *testResponsables) Create(ctx context.Context, item responsables.Responsable) error {
	return nil
}
func (r *testResponsables) Update(ctx context.Context, item responsables.Responsable) error {
	return nil
}
func (r *testResponsables) GetByID(ctx context.Context, id string) (responsables.Responsable, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return responsables.Responsable{}, errRepoNotFound
}
func (r *testResponsables) ListByPlanilla(ctx context.Context, planillaID string) ([]responsables.Responsable, error) {
	out := make([]responsables.Responsable, 0)
	for _, item := range r.items {
		if item.PlanillaID == planillaID {
			out = append(out, item)
		}
	}
	return out, nil
}
func (r *testResponsables) ListAll(ctx context.Context) ([]responsables.Responsable, error) {
	return r.items, nil
}
func (r *testResponsables) Delete(ctx context.Context, id string) error { return nil }

type testMascotas struct{ items []mascotas.Mascota }

func (r *testMascotas) Create(ctx context.Context, m mascotas.Mascota) error { return nil }
func (r *testMascotas) Update(ctx context.Context, m mascotas.Mascota) error { return nil }
func (r *testMascotas) GetByID(ctx context.Context, id string) (mascotas.Mascota, error) {
	for _, m := range r.items {
		if m.ID == id {
			return m, nil
		}
	}
	return mascotas.Mascota{}, errRepoNotFound
}
func (r *testMascotas) ListByResponsable(ctx context.Context, responsableID string) ([]mascotas.Mascota, error) {
	out := make([]mascotas.Mascota, 0)
	for _, m := range r.items {
		if m.ResponsableID == responsableID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *testMascotas) ListAll(ctx context.Context) ([]mascotas.Mascota, error) { return r.items, nil }
func (r *testMascotas) Delete(ctx context.Context, id string) error             { return nil }

// -------------------------
// Fixture: dos planillas, dos vacunadores, un técnico
// -------------------------

func servicioDePrueba() *Service {
	fuente := Fuente{
		Usuarios: &testUsuarios{items: []usuarios.Veterinario{
			{ID: "vac-1", Username: "ana", Rol: usuarios.RolVacunador},
			{ID: "vac-2", Username: "luis", Rol: usuarios.RolVacunador},
			{ID: "tec-1", Username: "carlos", Rol: usuarios.RolTecnico},
		}},
		Planillas: &testPlanillas{items: []planillas.Planilla{
			{
				ID: "pl-1", Nombre: "Rivera centro", Municipio: "Rivera",
				UrbanoRural: planillas.ZonaUrbano,
				VacunadorID: "vac-1", TecnicoID: "tec-1",
				VacunadoresAdicionales: []string{"vac-2"},
			},
			{
				ID: "pl-2", Nombre: "Pitalito rural", Municipio: "Pitalito",
				UrbanoRural: planillas.ZonaRural,
				VacunadorID: "vac-9", TecnicoID: "tec-9",
			},
		}},
		Responsables: &testResponsables{items: []responsables.Responsable{
			{ID: "r-1", Nombre: "Pedro", PlanillaID: "pl-1", Zona: "barrio", CreatedBy: "vac-1"},
			{ID: "r-2", Nombre: "Marta", PlanillaID: "pl-1", Zona: "vereda", CreatedBy: "vac-2"},
			{ID: "r-3", Nombre: "Jose", PlanillaID: "pl-2", Zona: "centro poblado", CreatedBy: "vac-9"},
		}},
		Mascotas: &testMascotas{items: []mascotas.Mascota{
			{ID: "m-1", Nombre: "Firulais", Tipo: mascotas.TipoPerro, ResponsableID: "r-1", CreatedBy: "vac-1", Creado: dia("2026-03-01")},
			{ID: "m-2", Nombre: "Michi", Tipo: mascotas.TipoGato, ResponsableID: "r-1", CreatedBy: "vac-1", Creado: dia("2026-03-02")},
			{ID: "m-3", Nombre: "Rocky", Tipo: mascotas.TipoPerro, ResponsableID: "r-2", CreatedBy: "vac-2", Creado: dia("2026-03-02")},
			{ID: "m-4", Nombre: "Luna", Tipo: mascotas.TipoGato, ResponsableID: "r-3", CreatedBy: "vac-9", Creado: dia("2026-03-05")},
		}},
	}
	svc := NewService(fuente, zap.NewNop())
	svc.now = func() time.Time { return dia("2026-03-10") }
	return svc
}

func TestReporteAgrupado_RolDesconocido(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("x", "supervisor")

	_, _, err := svc.ReporteAgrupado(context.Background(), alcance,
		[]Dimension{DimensionMunicipio}, Rango{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReporteAgrupado_AdminVeTodo(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("admin", usuarios.RolAdministrador)

	res, efectivo, err := svc.ReporteAgrupado(context.Background(), alcance,
		[]Dimension{DimensionMunicipio}, Rango{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalGeneral().Total)
	// Sin rango pedido: se resuelve a min..max de los datos
	assert.Equal(t, dia("2026-03-01"), efectivo.Inicio)
	assert.Equal(t, dia("2026-03-05"), efectivo.Fin)

	// Zonas: r-1 barrio=urbano (2), r-2 vereda=rural (1),
	// r-3 centro poblado=rural en reportes (1)
	assert.Equal(t, 2, res.TotalGeneral().TotalUrbano)
	assert.Equal(t, 2, res.TotalGeneral().TotalRural)
}

func TestReporteAgrupado_VacunadorSoloLoSuyo(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("vac-1", usuarios.RolVacunador)

	res, _, err := svc.ReporteAgrupado(context.Background(), alcance,
		[]Dimension{DimensionVacunador}, Rango{})
	require.NoError(t, err)

	// vac-1 comparte pl-1 con vac-2 pero solo ve sus propios registros
	assert.Equal(t, 2, res.TotalGeneral().Total)
	filas := res.Filas()
	require.Len(t, filas, 1)
	assert.Equal(t, []string{"ana"}, filas[0].Claves)
}

func TestReporteAgrupado_TecnicoVeSuPlanilla(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("tec-1", usuarios.RolTecnico)

	res, _, err := svc.ReporteAgrupado(context.Background(), alcance,
		[]Dimension{DimensionMunicipio}, Rango{})
	require.NoError(t, err)

	// Todo pl-1 (de ana y de luis), nada de pl-2
	assert.Equal(t, 3, res.TotalGeneral().Total)
	filas := res.Filas()
	require.Len(t, filas, 1)
	assert.Equal(t, []string{"Rivera"}, filas[0].Claves)
}

func TestReporteAgrupado_RangoParcial(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("admin", usuarios.RolAdministrador)

	inicio := dia("2026-03-02")
	res, efectivo, err := svc.ReporteAgrupado(context.Background(), alcance,
		[]Dimension{DimensionDia}, Rango{Inicio: &inicio})
	require.NoError(t, err)

	// Solo inicio: el fin es hoy (clock inyectado)
	assert.Equal(t, dia("2026-03-02"), efectivo.Inicio)
	assert.Equal(t, dia("2026-03-10"), efectivo.Fin)
	assert.Equal(t, 3, res.TotalGeneral().Total, "m-1 del 01 queda fuera")

	fin := dia("2026-03-02")
	res, efectivo, err = svc.ReporteAgrupado(context.Background(), alcance,
		[]Dimension{DimensionDia}, Rango{Fin: &fin})
	require.NoError(t, err)

	// Solo fin: el inicio es el dato más viejo
	assert.Equal(t, dia("2026-03-01"), efectivo.Inicio)
	assert.Equal(t, 3, res.TotalGeneral().Total, "m-4 del 05 queda fuera")
}

func TestTablero_CentroPobladoCuentaUrbano(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("admin", usuarios.RolAdministrador)

	out, err := svc.Tablero(context.Background(), alcance)
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalMascotas)
	assert.Equal(t, 2, out.TotalPlanillas)
	assert.Equal(t, 3, out.TotalResponsables)
	// En el tablero centro poblado es urbano: urbano=3 (r-1 x2, r-3), rural=1 (r-2)
	assert.Equal(t, 3, out.TotalUrbano)
	assert.Equal(t, 1, out.TotalRural)
}

func TestReporteVacunadorDiario(t *testing.T) {
	svc := servicioDePrueba()
	alcance := ResolverAlcance("vac-1", usuarios.RolVacunador)

	out, err := svc.ReporteVacunadorDiario(context.Background(), alcance, dia("2026-03-02"))
	require.NoError(t, err)

	// Ese día ana registró solo a Michi; Rocky es de luis.
	assert.Equal(t, 1, out.TotalMascotas)
	assert.Equal(t, 1, out.TotalGatos)
	assert.Equal(t, 0, out.TotalPerros)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "Michi", out.Detalles[0].Mascota)
}

func TestEstadisticasGenerales(t *testing.T) {
	svc := servicioDePrueba()

	out, err := svc.EstadisticasGenerales(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalMascotas)
	assert.Equal(t, 3, out.TotalResponsables)
	assert.Equal(t, 2, out.TotalPlanillas)
	assert.Equal(t, 2, out.TotalMunicipios)
	assert.Equal(t, 2, out.MascotasPorTipo["perro"])
	assert.Equal(t, 2, out.MascotasPorTipo["gato"])
}

func TestOpcionesFiltros(t *testing.T) {
	svc := servicioDePrueba()

	out, err := svc.OpcionesFiltros(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Pitalito", "Rivera"}, out.Municipios)
	assert.Equal(t, "2026-03-01", out.FechaMin)
	assert.Equal(t, "2026-03-05", out.FechaMax)

	// Solo vacunadores con registros; vac-9 no tiene usuario y sale con su id
	usernames := make([]string, 0, len(out.Vacunadores))
	for _, v := range out.Vacunadores {
		usernames = append(usernames, v.Username)
	}
	assert.Equal(t, []string{"ana", "luis", "vac-9"}, usernames)
}
