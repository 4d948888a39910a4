package perdidas

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Cantidad     int
	LoteVacuna   string
	Motivo       string
	FotoPath     string
	Latitud      *float64
	Longitud     *float64
	FechaPerdida *time.Time
	UUIDLocal    string
}

// Create registra una pérdida. Si viene UUIDLocal y ya existe un registro con
// ese UUID, devuelve el existente: el reenvío offline es idempotente.
func (s *Service) Create(ctx context.Context, registradoPor string, in CreateInput) (RegistroPerdida, error) {
	registradoPor = strings.TrimSpace(registradoPor)
	if registradoPor == "" {
		return RegistroPerdida{}, ErrInvalidInput
	}
	if in.Cantidad <= 0 {
		return RegistroPerdida{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.LoteVacuna) == "" {
		return RegistroPerdida{}, ErrInvalidInput
	}

	uuidLocal := strings.TrimSpace(in.UUIDLocal)
	if uuidLocal != "" {
		if existente, err := s.repo.GetByUUIDLocal(ctx, uuidLocal); err == nil {
			return existente, nil
		}
	} else {
		uuidLocal = uuid.NewString()
	}

	now := s.now()
	fechaPerdida := now
	if in.FechaPerdida != nil && !in.FechaPerdida.IsZero() {
		fechaPerdida = *in.FechaPerdida
	}

	p := RegistroPerdida{
		ID:            uuid.NewString(),
		RegistradoPor: registradoPor,
		Cantidad:      in.Cantidad,
		LoteVacuna:    strings.TrimSpace(in.LoteVacuna),
		Motivo:        strings.TrimSpace(in.Motivo),
		FotoPath:      strings.TrimSpace(in.FotoPath),
		Latitud:       in.Latitud,
		Longitud:      in.Longitud,
		FechaRegistro: now,
		FechaPerdida:  fechaPerdida,
		Sincronizado:  true, // al llegar al servidor queda sincronizado
		UUIDLocal:     uuidLocal,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return RegistroPerdida{}, err
	}
	return p, nil
}

// ListByUsuario lista las pérdidas registradas por un usuario, más reciente primero.
func (s *Service) ListByUsuario(ctx context.Context, userID string) ([]RegistroPerdida, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByUsuario(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].FechaRegistro.After(items[j].FechaRegistro)
	})
	return items, nil
}

// Estadisticas agrega las pérdidas visibles según el predicado de alcance:
// el caller decide qué usuarios entran (admin=todos, técnico=personal de sus
// planillas, vacunador=solo él).
type Estadisticas struct {
	TotalRegistros       int
	TotalVacunasPerdidas int
	PerdidasPorLote      map[string]int
}

func (s *Service) Estadisticas(ctx context.Context, visible func(registradoPor string) bool) (Estadisticas, error) {
	if visible == nil {
		return Estadisticas{}, ErrInvalidInput
	}

	todas, err := s.repo.ListAll(ctx)
	if err != nil {
		return Estadisticas{}, err
	}

	out := Estadisticas{PerdidasPorLote: map[string]int{}}
	for _, p := range todas {
		if !visible(p.RegistradoPor) {
			continue
		}
		out.TotalRegistros++
		out.TotalVacunasPerdidas += p.Cantidad
		out.PerdidasPorLote[p.LoteVacuna] += p.Cantidad
	}
	return out, nil
}
