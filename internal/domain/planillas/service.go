package planillas

import (
	"context"
	"errors"
	"sort"
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

// ResponsablesCascada borra los responsables (y transitivamente sus mascotas)
// de una planilla. Interface chica para no acoplar módulos.
type ResponsablesCascada interface {
	DeleteByPlanilla(ctx context.Context, planillaID string) error
}

type Service struct {
	repo    Repository
	cascada ResponsablesCascada
	now     func() time.Time
}

func NewService(repo Repository, cascada ResponsablesCascada) *Service {
	return &Service{
		repo:    repo,
		cascada: cascada,
		now:     time.Now,
	}
}

type CreateInput struct {
	Nombre                    string
	Municipio                 string
	UrbanoRural               string
	CentroPobladoVeredaBarrio string
	Zona                      string
	VacunadorID               string
	TecnicoID                 string
	VacunadoresAdicionales    []string
	TecnicosAdicionales       []string
}

// Create registra una planilla. Solo administradores asignan trabajo.
func (s *Service) Create(ctx context.Context, rol usuarios.Rol, in CreateInput) (Planilla, error) {
	if rol != usuarios.RolAdministrador {
		return Planilla{}, ErrForbidden
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return Planilla{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.VacunadorID) == "" {
		return Planilla{}, ErrInvalidInput
	}

	ur := TipoZona(strings.ToLower(strings.TrimSpace(in.UrbanoRural)))
	switch ur {
	case ZonaUrbano, ZonaRural:
	case "":
		ur = ZonaUrbano
	default:
		return Planilla{}, ErrInvalidInput
	}

	p := Planilla{
		ID:                        uuid.NewString(),
		Nombre:                    strings.TrimSpace(in.Nombre),
		Municipio:                 defaultIfEmpty(in.Municipio),
		UrbanoRural:               ur,
		CentroPobladoVeredaBarrio: defaultIfEmpty(in.CentroPobladoVeredaBarrio),
		Zona:                      defaultIfEmpty(in.Zona),
		VacunadorID:               strings.TrimSpace(in.VacunadorID),
		TecnicoID:                 strings.TrimSpace(in.TecnicoID),
		VacunadoresAdicionales:    limpiarIDs(in.VacunadoresAdicionales),
		TecnicosAdicionales:       limpiarIDs(in.TecnicosAdicionales),
		Creada:                    s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Planilla{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Planilla, error) {
	return s.repo.GetByID(ctx, id)
}

// ListVisibles devuelve las planillas que el usuario puede ver según su rol:
// - administrador: todas
// - tecnico: donde es técnico principal o adicional
// - vacunador: donde es vacunador principal o adicional
// - rol desconocido: ninguna (deny-all)
func (s *Service) ListVisibles(ctx context.Context, userID string, rol usuarios.Rol) ([]Planilla, error) {
	todas, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Planilla, 0, len(todas))
	switch rol {
	case usuarios.RolAdministrador:
		out = append(out, todas...)
	case usuarios.RolTecnico:
		for _, p := range todas {
			if p.TieneTecnico(userID) {
				out = append(out, p)
			}
		}
	case usuarios.RolVacunador:
		for _, p := range todas {
			if p.TieneVacunador(userID) {
				out = append(out, p)
			}
		}
	default:
		// deny-all
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Municipio != out[j].Municipio {
			return out[i].Municipio < out[j].Municipio
		}
		return out[i].Nombre < out[j].Nombre
	})

	return out, nil
}

// Delete elimina la planilla y en cascada sus responsables y mascotas.
func (s *Service) Delete(ctx context.Context, id string, rol usuarios.Rol) error {
	if rol != usuarios.RolAdministrador {
		return ErrForbidden
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}

	if s.cascada != nil {
		if err := s.cascada.DeleteByPlanilla(ctx, id); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

// MunicipiosUnicos para selectores y filtros de reportes.
func (s *Service) MunicipiosUnicos(ctx context.Context) ([]string, error) {
	todas, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, p := range todas {
		if _, ok := seen[p.Municipio]; ok {
			continue
		}
		seen[p.Municipio] = struct{}{}
		out = append(out, p.Municipio)
	}
	sort.Strings(out)
	return out, nil
}

func defaultIfEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return SinEspecificar
	}
	return s
}

func limpiarIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
