package usuarios

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrDuplicado    = errors.New("username already taken")
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
	Username string
	Nombre   string
	Apellido string
	Rol      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Veterinario, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return Veterinario{}, ErrInvalidInput
	}

	rol := ParseRol(strings.TrimSpace(in.Rol))
	if rol == RolDesconocido {
		return Veterinario{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return Veterinario{}, ErrDuplicado
	}

	v := Veterinario{
		ID:       uuid.NewString(),
		Username: username,
		Nombre:   strings.TrimSpace(in.Nombre),
		Apellido: strings.TrimSpace(in.Apellido),
		Rol:      rol,
		Creado:   s.now(),
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Veterinario{}, err
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Veterinario, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (Veterinario, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Veterinario{}, ErrInvalidInput
	}
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) ListByRol(ctx context.Context, rol Rol) ([]Veterinario, error) {
	if ParseRol(string(rol)) == RolDesconocido {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRol(ctx, rol)
}

func (s *Service) ListAll(ctx context.Context) ([]Veterinario, error) {
	return s.repo.ListAll(ctx)
}
