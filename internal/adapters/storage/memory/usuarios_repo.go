package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vetcontrol/internal/domain/usuarios"
)

var (
	ErrNotFound = errors.New("not found")
)

type usuariosRepo struct {
	mu   sync.RWMutex
	byID map[string]usuarios.Veterinario
}

func NewUsuariosRepo() usuarios.Repository {
	return &usuariosRepo{
		byID: make(map[string]usuarios.Veterinario),
	}
}

func (r *usuariosRepo) Create(ctx context.Context, v usuarios.Veterinario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("usuario id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("usuario already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *usuariosRepo) GetByID(ctx context.Context, id string) (usuarios.Veterinario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return usuarios.Veterinario{}, ErrNotFound
	}
	return v, nil
}

func (r *usuariosRepo) GetByUsername(ctx context.Context, username string) (usuarios.Veterinario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.byID {
		if v.Username == username {
			return v, nil
		}
	}
	return usuarios.Veterinario{}, ErrNotFound
}

func (r *usuariosRepo) ListByRol(ctx context.Context, rol usuarios.Rol) ([]usuarios.Veterinario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]usuarios.Veterinario, 0)
	for _, v := range r.byID {
		if v.Rol == rol {
			out = append(out, v)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (r *usuariosRepo) ListAll(ctx context.Context) ([]usuarios.Veterinario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]usuarios.Veterinario, 0, len(r.byID))
	for _, v := range r.byID {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}
