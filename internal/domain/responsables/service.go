package responsables

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

const SinEspecificar = "Sin especificar"

// MascotasCascada borra las mascotas de un responsable (ownership exclusivo).
type MascotasCascada interface {
	DeleteByResponsable(ctx context.Context, responsableID string) error
}

type Service struct {
	repo    Repository
	cascada MascotasCascada
	now     func() time.Time
}

func NewService(repo Repository, cascada MascotasCascada) *Service {
	return &Service{
		repo:    repo,
		cascada: cascada,
		now:     time.Now,
	}
}

type CreateInput struct {
	Nombre     string
	Telefono   string
	Finca      string
	Zona       string
	NombreZona string
	LoteVacuna string
}

// Create registra un responsable bajo una planilla, guardando quién lo creó.
func (s *Service) Create(ctx context.Context, planillaID, createdBy string, in CreateInput) (Responsable, error) {
	planillaID = strings.TrimSpace(planillaID)
	if planillaID == "" {
		return Responsable{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return Responsable{}, ErrInvalidInput
	}

	r := Responsable{
		ID:         uuid.NewString(),
		Nombre:     strings.TrimSpace(in.Nombre),
		Telefono:   strings.TrimSpace(in.Telefono),
		Finca:      strings.TrimSpace(in.Finca),
		PlanillaID: planillaID,
		Zona:       defaultIfEmpty(in.Zona),
		NombreZona: defaultIfEmpty(in.NombreZona),
		LoteVacuna: defaultIfEmpty(in.LoteVacuna),
		CreatedBy:  strings.TrimSpace(createdBy),
		Creado:     s.now(),
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Responsable{}, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Responsable, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByPlanilla lista los responsables de una planilla.
// Los vacunadores solo ven los registros que ellos mismos crearon, aunque
// compartan planilla con otros vacunadores. Técnicos y administradores ven todo.
func (s *Service) ListByPlanilla(ctx context.Context, planillaID, userID string, rol usuarios.Rol) ([]Responsable, error) {
	items, err := s.repo.ListByPlanilla(ctx, planillaID)
	if err != nil {
		return nil, err
	}

	switch rol {
	case usuarios.RolAdministrador, usuarios.RolTecnico:
		return items, nil
	case usuarios.RolVacunador:
		out := make([]Responsable, 0, len(items))
		for _, r := range items {
			if r.CreatedBy == userID {
				out = append(out, r)
			}
		}
		return out, nil
	default:
		return []Responsable{}, nil
	}
}

type UpdateInput struct {
	Nombre     *string
	Telefono   *string
	Finca      *string
	Zona       *string
	NombreZona *string
	LoteVacuna *string
}

func (s *Service) Update(ctx context.Context, id, userID string, rol usuarios.Rol, in UpdateInput) (Responsable, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Responsable{}, ErrNotFound
	}

	if !puedeEditar(r, userID, rol) {
		return Responsable{}, ErrForbidden
	}

	if in.Nombre != nil {
		if strings.TrimSpace(*in.Nombre) == "" {
			return Responsable{}, ErrInvalidInput
		}
		r.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Telefono != nil {
		r.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Finca != nil {
		r.Finca = strings.TrimSpace(*in.Finca)
	}
	if in.Zona != nil {
		r.Zona = defaultIfEmpty(*in.Zona)
	}
	if in.NombreZona != nil {
		r.NombreZona = defaultIfEmpty(*in.NombreZona)
	}
	if in.LoteVacuna != nil {
		r.LoteVacuna = defaultIfEmpty(*in.LoteVacuna)
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return Responsable{}, err
	}
	return r, nil
}

// UpdateFechaCreacion es el flujo de corrección: solo administradores y
// técnicos pueden mover la fecha, nunca el vacunador original.
func (s *Service) UpdateFechaCreacion(ctx context.Context, id string, rol usuarios.Rol, fecha time.Time) (Responsable, error) {
	if rol != usuarios.RolAdministrador && rol != usuarios.RolTecnico {
		return Responsable{}, ErrForbidden
	}
	if fecha.IsZero() {
		return Responsable{}, ErrInvalidInput
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Responsable{}, ErrNotFound
	}

	r.Creado = fecha
	if err := s.repo.Update(ctx, r); err != nil {
		return Responsable{}, err
	}
	return r, nil
}

// Delete elimina el responsable y en cascada sus mascotas.
func (s *Service) Delete(ctx context.Context, id, userID string, rol usuarios.Rol) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if !puedeEditar(r, userID, rol) {
		return ErrForbidden
	}

	if s.cascada != nil {
		if err := s.cascada.DeleteByResponsable(ctx, id); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

// DeleteByPlanilla implementa la cascada planilla -> responsables -> mascotas.
func (s *Service) DeleteByPlanilla(ctx context.Context, planillaID string) error {
	items, err := s.repo.ListByPlanilla(ctx, planillaID)
	if err != nil {
		return err
	}
	for _, r := range items {
		if s.cascada != nil {
			if err := s.cascada.DeleteByResponsable(ctx, r.ID); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}

func puedeEditar(r Responsable, userID string, rol usuarios.Rol) bool {
	switch rol {
	case usuarios.RolAdministrador, usuarios.RolTecnico:
		return true
	case usuarios.RolVacunador:
		return r.CreatedBy != "" && r.CreatedBy == userID
	default:
		return false
	}
}

func defaultIfEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return SinEspecificar
	}
	return s
}
