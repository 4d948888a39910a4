package mascotas

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
	byID map[string]Mascota
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Mascota{}}
}

func (r *testRepo) Create(ctx context.Context, m Mascota) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Mascota) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Mascota, error) {
	m, ok := r.byID[id]
	if !ok {
		return Mascota{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByResponsable(ctx context.Context, responsableID string) ([]Mascota, error) {
	out := make([]Mascota, 0)
	for _, m := range r.byID {
		if m.ResponsableID == responsableID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Mascota, error) {
	out := make([]Mascota, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
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

// -------------------------
// Tests
// -------------------------

func TestCreate(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	m, err := svc.Create(context.Background(), "r-1", "vac-1", CreateInput{
		Nombre: "  Firulais  ",
		Tipo:   "PERRO",
		Raza:   "criollo",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Nombre != "Firulais" {
		t.Fatalf("Nombre = %q", m.Nombre)
	}
	if m.Tipo != TipoPerro {
		t.Fatalf("Tipo = %q, la especie se normaliza a minúsculas", m.Tipo)
	}
	if m.Color != "Sin especificar" {
		t.Fatalf("Color = %q", m.Color)
	}
	if m.CreatedBy != "vac-1" {
		t.Fatalf("CreatedBy = %q", m.CreatedBy)
	}

	// Sin especie asume perro
	m, err = svc.Create(context.Background(), "r-1", "vac-1", CreateInput{Nombre: "Bobby"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Tipo != TipoPerro {
		t.Fatalf("Tipo por defecto = %q", m.Tipo)
	}

	if _, err := svc.Create(context.Background(), "r-1", "vac-1", CreateInput{Nombre: "X", Tipo: "loro"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("especie no soportada: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), "", "vac-1", CreateInput{Nombre: "X"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("sin responsable: err = %v", err)
	}
}

func sembrar(t *testing.T, svc *Service) (mia, ajena Mascota) {
	t.Helper()

	mia, err := svc.Create(context.Background(), "r-1", "vac-1", CreateInput{Nombre: "Firulais"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ajena, err = svc.Create(context.Background(), "r-1", "vac-2", CreateInput{Nombre: "Michi", Tipo: "gato"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return mia, ajena
}

func TestListByResponsable_PorRol(t *testing.T) {
	svc := NewService(newTestRepo())
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
			items, err := svc.ListByResponsable(context.Background(), "r-1", tc.userID, tc.rol)
			if err != nil {
				t.Fatalf("ListByResponsable: %v", err)
			}
			if len(items) != tc.want {
				t.Fatalf("items = %d, esperaba %d", len(items), tc.want)
			}
		})
	}
}

func TestListGeoreferenciadas(t *testing.T) {
	svc := NewService(newTestRepo())
	sembrar(t, svc)

	lat := 2.93
	lon := -75.28
	conGeo, err := svc.Create(context.Background(), "r-2", "vac-1", CreateInput{
		Nombre: "Luna", Latitud: &lat, Longitud: &lon,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Una sola coordenada no cuenta como georreferenciada
	if _, err := svc.Create(context.Background(), "r-2", "vac-1", CreateInput{
		Nombre: "Rocky", Latitud: &lat,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := svc.ListGeoreferenciadas(context.Background())
	if err != nil {
		t.Fatalf("ListGeoreferenciadas: %v", err)
	}
	if len(items) != 1 || items[0].ID != conGeo.ID {
		t.Fatalf("items = %v", items)
	}
}

func TestUpdate_Permisos(t *testing.T) {
	svc := NewService(newTestRepo())
	mia, ajena := sembrar(t, svc)

	nuevo := "Firulais II"
	if _, err := svc.Update(context.Background(), mia.ID, "vac-1", usuarios.RolVacunador, UpdateInput{Nombre: &nuevo}); err != nil {
		t.Fatalf("el creador puede editar: %v", err)
	}
	if _, err := svc.Update(context.Background(), ajena.ID, "vac-1", usuarios.RolVacunador, UpdateInput{Nombre: &nuevo}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, esperaba ErrForbidden", err)
	}
	if _, err := svc.Update(context.Background(), ajena.ID, "admin", usuarios.RolAdministrador, UpdateInput{Nombre: &nuevo}); err != nil {
		t.Fatalf("administrador edita cualquiera: %v", err)
	}
	if _, err := svc.Update(context.Background(), "no-existe", "admin", usuarios.RolAdministrador, UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, esperaba ErrNotFound", err)
	}
}

func TestUpdateFechaCreacion(t *testing.T) {
	svc := NewService(newTestRepo())
	mia, _ := sembrar(t, svc)

	fecha := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	if _, err := svc.UpdateFechaCreacion(context.Background(), mia.ID, usuarios.RolVacunador, fecha); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, esperaba ErrForbidden", err)
	}

	m, err := svc.UpdateFechaCreacion(context.Background(), mia.ID, usuarios.RolAdministrador, fecha)
	if err != nil {
		t.Fatalf("UpdateFechaCreacion: %v", err)
	}
	if !m.Creado.Equal(fecha) {
		t.Fatalf("Creado = %v", m.Creado)
	}
}

func TestDeleteByResponsable(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	sembrar(t, svc)

	otra, err := svc.Create(context.Background(), "r-2", "vac-1", CreateInput{Nombre: "Luna"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.DeleteByResponsable(context.Background(), "r-1"); err != nil {
		t.Fatalf("DeleteByResponsable: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("quedan %d mascotas, esperaba 1", len(repo.byID))
	}
	if _, err := repo.GetByID(context.Background(), otra.ID); err != nil {
		t.Fatalf("la mascota de r-2 debió sobrevivir: %v", err)
	}
}
