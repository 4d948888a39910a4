package usuarios

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Veterinario
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Veterinario{}}
}

func (r *testRepo) Create(ctx context.Context, v Veterinario) error {
	if v.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[v.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Veterinario, error) {
	v, ok := r.byID[id]
	if !ok {
		return Veterinario{}, errRepoNotFound
	}
	return v, nil
}

func (r *testRepo) GetByUsername(ctx context.Context, username string) (Veterinario, error) {
	for _, v := range r.byID {
		if v.Username == username {
			return v, nil
		}
	}
	return Veterinario{}, errRepoNotFound
}

func (r *testRepo) ListByRol(ctx context.Context, rol Rol) ([]Veterinario, error) {
	out := make([]Veterinario, 0)
	for _, v := range r.byID {
		if v.Rol == rol {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Veterinario, error) {
	out := make([]Veterinario, 0, len(r.byID))
	for _, v := range r.byID {
		out = append(out, v)
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC) }

	v, err := svc.Create(context.Background(), CreateInput{
		Username: "  ana  ",
		Nombre:   "Ana",
		Apellido: "Rojas",
		Rol:      "vacunador",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Username != "ana" {
		t.Fatalf("Username = %q", v.Username)
	}
	if v.Rol != RolVacunador {
		t.Fatalf("Rol = %q", v.Rol)
	}

	// Username repetido
	if _, err := svc.Create(context.Background(), CreateInput{Username: "ana", Rol: "tecnico"}); !errors.Is(err, ErrDuplicado) {
		t.Fatalf("err = %v, esperaba ErrDuplicado", err)
	}
	// Rol no soportado
	if _, err := svc.Create(context.Background(), CreateInput{Username: "luis", Rol: "supervisor"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, esperaba ErrInvalidInput", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Username: "   ", Rol: "vacunador"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, esperaba ErrInvalidInput", err)
	}
}

func TestListByRol(t *testing.T) {
	svc := NewService(newTestRepo())

	crear := func(username, rol string) {
		t.Helper()
		if _, err := svc.Create(context.Background(), CreateInput{Username: username, Rol: rol}); err != nil {
			t.Fatalf("Create %s: %v", username, err)
		}
	}
	crear("ana", "vacunador")
	crear("luis", "vacunador")
	crear("carlos", "tecnico")

	vacunadores, err := svc.ListByRol(context.Background(), RolVacunador)
	if err != nil {
		t.Fatalf("ListByRol: %v", err)
	}
	if len(vacunadores) != 2 {
		t.Fatalf("vacunadores = %d", len(vacunadores))
	}

	if _, err := svc.ListByRol(context.Background(), "supervisor"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, esperaba ErrInvalidInput", err)
	}
}

func TestGetByUsername(t *testing.T) {
	svc := NewService(newTestRepo())

	creado, err := svc.Create(context.Background(), CreateInput{Username: "ana", Rol: "vacunador"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	v, err := svc.GetByUsername(context.Background(), " ana ")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if v.ID != creado.ID {
		t.Fatalf("ID = %q, esperaba %q", v.ID, creado.ID)
	}

	if _, err := svc.GetByUsername(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, esperaba ErrInvalidInput", err)
	}
}

func TestParseRol(t *testing.T) {
	casos := []struct {
		in   string
		want Rol
	}{
		{"administrador", RolAdministrador},
		{"vacunador", RolVacunador},
		{"tecnico", RolTecnico},
		{"ADMINISTRADOR", RolDesconocido}, // los roles son sensibles a mayúsculas
		{"supervisor", RolDesconocido},
		{"", RolDesconocido},
	}
	for _, tc := range casos {
		if got := ParseRol(tc.in); got != tc.want {
			t.Fatalf("ParseRol(%q) = %q, esperaba %q", tc.in, got, tc.want)
		}
	}
}

func TestNombreCompleto(t *testing.T) {
	casos := []struct {
		v    Veterinario
		want string
	}{
		{Veterinario{Username: "ana", Nombre: "Ana", Apellido: "Rojas"}, "Ana Rojas"},
		{Veterinario{Username: "ana", Nombre: "Ana"}, "Ana"},
		{Veterinario{Username: "ana"}, "ana"},
	}
	for _, tc := range casos {
		if got := tc.v.NombreCompleto(); got != tc.want {
			t.Fatalf("NombreCompleto = %q, esperaba %q", got, tc.want)
		}
	}
}
