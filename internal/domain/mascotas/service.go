package mascotas

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcontrol/internal/domain/usuarios"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
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
	Nombre             string
	Tipo               string
	Raza               string
	Color              string
	AntecedenteVacunal bool
	Esterilizado       bool
	Latitud            *float64
	Longitud           *float64
	FotoPath           string
}

// Create registra una mascota bajo un responsable, guardando quién la creó.
func (s *Service) Create(ctx context.Context, responsableID, createdBy string, in CreateInput) (Mascota, error) {
	responsableID = strings.TrimSpace(responsableID)
	if responsableID == "" {
		return Mascota{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return Mascota{}, ErrInvalidInput
	}

	tipo := Tipo(strings.ToLower(strings.TrimSpace(in.Tipo)))
	switch tipo {
	case TipoPerro, TipoGato:
	case "":
		tipo = TipoPerro
	default:
		return Mascota{}, ErrInvalidInput
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = "Sin especificar"
	}

	m := Mascota{
		ID:                 uuid.NewString(),
		Nombre:             strings.TrimSpace(in.Nombre),
		Tipo:               tipo,
		Raza:               strings.TrimSpace(in.Raza),
		Color:              color,
		AntecedenteVacunal: in.AntecedenteVacunal,
		Esterilizado:       in.Esterilizado,
		ResponsableID:      responsableID,
		Latitud:            in.Latitud,
		Longitud:           in.Longitud,
		FotoPath:           strings.TrimSpace(in.FotoPath),
		CreatedBy:          strings.TrimSpace(createdBy),
		Creado:             s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Mascota{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Mascota, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByResponsable lista las mascotas de un responsable.
// Vacunadores solo ven las que ellos crearon; técnicos y administradores todo.
func (s *Service) ListByResponsable(ctx context.Context, responsableID, userID string, rol usuarios.Rol) ([]Mascota, error) {
	items, err := s.repo.ListByResponsable(ctx, responsableID)
	if err != nil {
		return nil, err
	}

	switch rol {
	case usuarios.RolAdministrador, usuarios.RolTecnico:
		return items, nil
	case usuarios.RolVacunador:
		out := make([]Mascota, 0, len(items))
		for _, m := range items {
			if m.CreatedBy == userID {
				out = append(out, m)
			}
		}
		return out, nil
	default:
		return []Mascota{}, nil
	}
}

// ListGeoreferenciadas devuelve las mascotas con coordenadas, para el mapa.
func (s *Service) ListGeoreferenciadas(ctx context.Context) ([]Mascota, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Mascota, 0)
	for _, m := range items {
		if m.TieneGeoreferencia() {
			out = append(out, m)
		}
	}
	return out, nil
}

type UpdateInput struct {
	Nombre             *string
	Tipo               *string
	Raza               *string
	Color              *string
	AntecedenteVacunal *bool
	Esterilizado       *bool
}

func (s *Service) Update(ctx context.Context, id, userID string, rol usuarios.Rol, in UpdateInput) (Mascota, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Mascota{}, ErrNotFound
	}

	if !puedeEditar(m, userID, rol) {
		return Mascota{}, ErrForbidden
	}

	if in.Nombre != nil {
		if strings.TrimSpace(*in.Nombre) == "" {
			return Mascota{}, ErrInvalidInput
		}
		m.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Tipo != nil {
		tipo := Tipo(strings.ToLower(strings.TrimSpace(*in.Tipo)))
		if tipo != TipoPerro && tipo != TipoGato {
			return Mascota{}, ErrInvalidInput
		}
		m.Tipo = tipo
	}
	if in.Raza != nil {
		m.Raza = strings.TrimSpace(*in.Raza)
	}
	if in.Color != nil {
		m.Color = strings.TrimSpace(*in.Color)
	}
	if in.AntecedenteVacunal != nil {
		m.AntecedenteVacunal = *in.AntecedenteVacunal
	}
	if in.Esterilizado != nil {
		m.Esterilizado = *in.Esterilizado
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return Mascota{}, err
	}
	return m, nil
}

// UpdateFechaCreacion es el flujo de corrección: solo administradores y
// técnicos, nunca el vacunador original.
func (s *Service) UpdateFechaCreacion(ctx context.Context, id string, rol usuarios.Rol, fecha time.Time) (Mascota, error) {
	if rol != usuarios.RolAdministrador && rol != usuarios.RolTecnico {
		return Mascota{}, ErrForbidden
	}
	if fecha.IsZero() {
		return Mascota{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Mascota{}, ErrNotFound
	}

	m.Creado = fecha
	if err := s.repo.Update(ctx, m); err != nil {
		return Mascota{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string, rol usuarios.Rol) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if !puedeEditar(m, userID, rol) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// DeleteByResponsable implementa la cascada responsable -> mascotas.
func (s *Service) DeleteByResponsable(ctx context.Context, responsableID string) error {
	items, err := s.repo.ListByResponsable(ctx, responsableID)
	if err != nil {
		return err
	}
	for _, m := range items {
		if err := s.repo.Delete(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

func puedeEditar(m Mascota, userID string, rol usuarios.Rol) bool {
	switch rol {
	case usuarios.RolAdministrador, usuarios.RolTecnico:
		return true
	case usuarios.RolVacunador:
		return m.CreatedBy != "" && m.CreatedBy == userID
	default:
		return false
	}
}
