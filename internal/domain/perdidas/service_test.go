package perdidas

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
	byID        map[string]RegistroPerdida
	byUUIDLocal map[string]string
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:        map[string]RegistroPerdida{},
		byUUIDLocal: map[string]string{},
	}
}

func (r *testRepo) Create(ctx context.Context, p RegistroPerdida) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	if p.UUIDLocal != "" {
		if _, ok := r.byUUIDLocal[p.UUIDLocal]; ok {
			return errors.New("repo: uuid_local duplicado")
		}
		r.byUUIDLocal[p.UUIDLocal] = p.ID
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p RegistroPerdida) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (RegistroPerdida, error) {
	p, ok := r.byID[id]
	if !ok {
		return RegistroPerdida{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) GetByUUIDLocal(ctx context.Context, uuidLocal string) (RegistroPerdida, error) {
	id, ok := r.byUUIDLocal[uuidLocal]
	if !ok {
		return RegistroPerdida{}, errRepoNotFound
	}
	return r.byID[id], nil
}

func (r *testRepo) ListByUsuario(ctx context.Context, userID string) ([]RegistroPerdida, error) {
	out := make([]RegistroPerdida, 0)
	for _, p := range r.byID {
		if p.RegistradoPor == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]RegistroPerdida, error) {
	out := make([]RegistroPerdida, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func fixedNow() time.Time {
	return time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
}

func TestCreate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	lat := 2.93
	lon := -75.28
	p, err := svc.Create(context.Background(), "vac-1", CreateInput{
		Cantidad:   3,
		LoteVacuna: "LOTE-2026-A",
		Motivo:     "frasco roto",
		Latitud:    &lat,
		Longitud:   &lon,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("esperaba id generado")
	}
	if p.UUIDLocal == "" {
		t.Fatalf("esperaba uuid_local generado cuando no viene del cliente")
	}
	if !p.Sincronizado {
		t.Fatalf("al llegar al servidor debe quedar sincronizado")
	}
	if !p.FechaRegistro.Equal(fixedNow()) {
		t.Fatalf("FechaRegistro = %v, esperaba %v", p.FechaRegistro, fixedNow())
	}
	if !p.FechaPerdida.Equal(fixedNow()) {
		t.Fatalf("sin fecha de pérdida explícita usa el reloj del servidor")
	}
}

func TestCreate_Validaciones(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name          string
		registradoPor string
		in            CreateInput
	}{
		{"sin usuario", "", CreateInput{Cantidad: 1, LoteVacuna: "L1"}},
		{"cantidad cero", "vac-1", CreateInput{Cantidad: 0, LoteVacuna: "L1"}},
		{"cantidad negativa", "vac-1", CreateInput{Cantidad: -2, LoteVacuna: "L1"}},
		{"sin lote", "vac-1", CreateInput{Cantidad: 1, LoteVacuna: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.registradoPor, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, esperaba ErrInvalidInput", err)
			}
		})
	}
}

func TestCreate_ReenvioIdempotente(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	in := CreateInput{
		Cantidad:   2,
		LoteVacuna: "LOTE-2026-B",
		UUIDLocal:  "movil-uuid-1",
	}
	primero, err := svc.Create(context.Background(), "vac-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// La app móvil reintenta el mismo envío tras perder conexión
	segundo, err := svc.Create(context.Background(), "vac-1", in)
	if err != nil {
		t.Fatalf("Create (reenvío): %v", err)
	}
	if segundo.ID != primero.ID {
		t.Fatalf("el reenvío devolvió otro registro: %s != %s", segundo.ID, primero.ID)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("registros = %d, esperaba 1", len(repo.byID))
	}
}

func TestListByUsuario_MasRecientePrimero(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	base := fixedNow()
	svc.now = func() time.Time { return base }
	if _, err := svc.Create(context.Background(), "vac-1", CreateInput{Cantidad: 1, LoteVacuna: "L1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	svc.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := svc.Create(context.Background(), "vac-1", CreateInput{Cantidad: 2, LoteVacuna: "L2"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "vac-2", CreateInput{Cantidad: 9, LoteVacuna: "L9"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := svc.ListByUsuario(context.Background(), "vac-1")
	if err != nil {
		t.Fatalf("ListByUsuario: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, esperaba 2", len(items))
	}
	if items[0].LoteVacuna != "L2" {
		t.Fatalf("esperaba el más reciente primero, vino %s", items[0].LoteVacuna)
	}
}

func TestEstadisticas(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	crear := func(userID, lote string, cantidad int) {
		t.Helper()
		if _, err := svc.Create(context.Background(), userID, CreateInput{Cantidad: cantidad, LoteVacuna: lote}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	crear("vac-1", "L1", 3)
	crear("vac-1", "L2", 1)
	crear("vac-2", "L1", 5)

	// Admin: todo visible
	todos, err := svc.Estadisticas(context.Background(), func(string) bool { return true })
	if err != nil {
		t.Fatalf("Estadisticas: %v", err)
	}
	if todos.TotalRegistros != 3 || todos.TotalVacunasPerdidas != 9 {
		t.Fatalf("admin: registros=%d dosis=%d", todos.TotalRegistros, todos.TotalVacunasPerdidas)
	}
	if todos.PerdidasPorLote["L1"] != 8 || todos.PerdidasPorLote["L2"] != 1 {
		t.Fatalf("por lote: %v", todos.PerdidasPorLote)
	}

	// Vacunador: solo lo propio
	propios, err := svc.Estadisticas(context.Background(), func(id string) bool { return id == "vac-1" })
	if err != nil {
		t.Fatalf("Estadisticas: %v", err)
	}
	if propios.TotalRegistros != 2 || propios.TotalVacunasPerdidas != 4 {
		t.Fatalf("vacunador: registros=%d dosis=%d", propios.TotalRegistros, propios.TotalVacunasPerdidas)
	}

	// Sin predicado no hay respuesta
	if _, err := svc.Estadisticas(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, esperaba ErrInvalidInput", err)
	}
}
