package responsables

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetcontrol/internal/domain/usuarios"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Responsable
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Responsable{}}
}

func (r *testRepo) Create(ctx context.Context, item Responsable) error {
	if item.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[item.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[item.ID] = item
	return nil
}

func (r *testRepo) Update(ctx context.Context, item Responsable) error {
	if _, ok := r.byID[item.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[item.ID] = item
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Responsable, error) {
	item, ok := r.byID[id]
	if !ok {
		return Responsable{}, errRepoNotFound
	}
	return item, nil
}

func (r *testRepo) ListByPlanilla(ctx context.Context, planillaID string) ([]Responsable, error) {
	out := make([]Responsable, 0)
	for _, item := range r.byID {
		if item.PlanillaID == planillaID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Responsable, error) {
	out := make([]Responsable, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// Cascada de prueba
type testCascada struct {
	borrados []string
}

func (c *testCascada) DeleteByResponsable(ctx context.Context, responsableID string) error {
	c.borrados = append(c.borrados, responsableID)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	r, err := svc.Create(context.Background(), "pl-1", "vac-1", CreateInput{
		Nombre:   "  Pedro Gómez  ",
		Telefono: "3120000000",
		Zona:     "vereda",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Nombre != "Pedro Gómez" {
		t.Fatalf("Nombre = %q", r.Nombre)
	}
	if r.CreatedBy != "vac-1" {
		t.Fatalf("CreatedBy = %q", r.CreatedBy)
	}
	// Lo no diligenciado cae al marcador estándar
	if r.NombreZona != SinEspecificar || r.LoteVacuna != SinEspecificar {
		t.Fatalf("zona = %q, lote = %q", r.NombreZona, r.LoteVacuna)
	}

	if _, err := svc.Create(context.Background(), "pl-1", "vac-1", CreateInput{Nombre: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nombre vacío: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), "", "vac-1", CreateInput{Nombre: "Pedro"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("sin planilla: err = %v", err)
	}
}

func sembrar(t *testing.T, svc *Service) (mio, ajeno Responsable) {
	t.Helper()

	mio, err := svc.Create(context.Background(), "pl-1", "vac-1", CreateInput{Nombre: "Pedro"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ajeno, err = svc.Create(context.Background(), "pl-1", "vac-2", CreateInput{Nombre: "Marta"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return mio, ajeno
}

func TestListByPlanilla_PorRol(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	sembrar(t, svc)

	casos := []struct {
		name   string
		userID string
		rol    usuarios.Rol
		want   int
	}{
		{"administrador ve todo", "admin", usuarios.RolAdministrador, 2},
		{"técnico ve todo", "tec-1", usuarios.RolTecnico, 2},
		{"vacunador solo lo suyo", "vac-1", usuarios.RolVacunador, 1},
		{"rol desconocido nada", "vac-1", "supervisor", 0},
	}
	for _, tc := range casos {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.ListByPlanilla(context.Background(), "pl-1", tc.userID, tc.rol)
			if err != nil {
				t.Fatalf("ListByPlanilla: %v", err)
			}
			if len(items) != tc.want {
				t.Fatalf("items = %d, esperaba %d", len(items), tc.want)
			}
		})
	}
}

func TestUpdate_Permisos(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	mio, ajeno := sembrar(t, svc)

	nuevo := "Pedro Pérez"
	if _, err := svc.Update(context.Background(), mio.ID, "vac-1", usuarios.RolVacunador, UpdateInput{Nombre: &nuevo}); err != nil {
		t.Fatalf("el creador puede editar: %v", err)
	}

	// Otro vacunador no toca registros ajenos aunque compartan planilla
	if _, err := svc.Update(context.Background(), ajeno.ID, "vac-1", usuarios.RolVacunador, UpdateInput{Nombre: &nuevo}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, esperaba ErrForbidden", err)
	}

	// El técnico sí
	if _, err := svc.Update(context.Background(), ajeno.ID, "tec-1", usuarios.RolTecnico, UpdateInput{Nombre: &nuevo}); err != nil {
		t.Fatalf("técnico edita cualquiera: %v", err)
	}

	vacio := "  "
	if _, err := svc.Update(context.Background(), mio.ID, "vac-1", usuarios.RolVacunador, UpdateInput{Nombre: &vacio}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nombre en blanco: err = %v", err)
	}

	if _, err := svc.Update(context.Background(), "no-existe", "admin", usuarios.RolAdministrador, UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, esperaba ErrNotFound", err)
	}
}

func TestUpdateFechaCreacion(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	mio, _ := sembrar(t, svc)

	fecha := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	// El vacunador no mueve fechas, ni las propias
	if _, err := svc.UpdateFechaCreacion(context.Background(), mio.ID, usuarios.RolVacunador, fecha); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, esperaba ErrForbidden", err)
	}

	r, err := svc.UpdateFechaCreacion(context.Background(), mio.ID, usuarios.RolTecnico, fecha)
	if err != nil {
		t.Fatalf("UpdateFechaCreacion: %v", err)
	}
	if !r.Creado.Equal(fecha) {
		t.Fatalf("Creado = %v", r.Creado)
	}

	if _, err := svc.UpdateFechaCreacion(context.Background(), mio.ID, usuarios.RolAdministrador, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("fecha cero: err = %v", err)
	}
}

func TestDelete_ConCascada(t *testing.T) {
	repo := newTestRepo()
	cascada := &testCascada{}
	svc := NewService(repo, cascada)
	mio, ajeno := sembrar(t, svc)

	if err := svc.Delete(context.Background(), ajeno.ID, "vac-1", usuarios.RolVacunador); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, esperaba ErrForbidden", err)
	}

	if err := svc.Delete(context.Background(), mio.ID, "vac-1", usuarios.RolVacunador); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(cascada.borrados) != 1 || cascada.borrados[0] != mio.ID {
		t.Fatalf("cascada = %v", cascada.borrados)
	}
	if _, err := repo.GetByID(context.Background(), mio.ID); !errors.Is(err, errRepoNotFound) {
		t.Fatalf("el responsable sigue en el repo")
	}
}

func TestDeleteByPlanilla(t *testing.T) {
	repo := newTestRepo()
	cascada := &testCascada{}
	svc := NewService(repo, cascada)
	sembrar(t, svc)

	otro, err := svc.Create(context.Background(), "pl-2", "vac-3", CreateInput{Nombre: "Jose"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.DeleteByPlanilla(context.Background(), "pl-1"); err != nil {
		t.Fatalf("DeleteByPlanilla: %v", err)
	}
	if len(cascada.borrados) != 2 {
		t.Fatalf("cascada = %v, esperaba los dos de pl-1", cascada.borrados)
	}
	// pl-2 no se toca
	if _, err := repo.GetByID(context.Background(), otro.ID); err != nil {
		t.Fatalf("el responsable de pl-2 debió sobrevivir: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("quedan %d responsables, esperaba 1", len(repo.byID))
	}
}
