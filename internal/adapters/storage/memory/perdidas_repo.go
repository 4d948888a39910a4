package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vetcontrol/internal/domain/perdidas"
)

type perdidasRepo struct {
	mu          sync.RWMutex
	byID        map[string]perdidas.RegistroPerdida
	byUUIDLocal map[string]string // uuid_local -> id
}

func NewPerdidasRepo() perdidas.Repository {
	return &perdidasRepo{
		byID:        make(map[string]perdidas.RegistroPerdida),
		byUUIDLocal: make(map[string]string),
	}
}

func (r *perdidasRepo) Create(ctx context.Context, p perdidas.RegistroPerdida) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("perdida id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("perdida already exists")
	}
	if p.UUIDLocal != "" {
		if _, exists := r.byUUIDLocal[p.UUIDLocal]; exists {
			return errors.New("uuid_local already exists")
		}
	}

	r.byID[p.ID] = p
	if p.UUIDLocal != "" {
		r.byUUIDLocal[p.UUIDLocal] = p.ID
	}
	return nil
}

func (r *perdidasRepo) Update(ctx context.Context, p perdidas.RegistroPerdida) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("perdida id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *perdidasRepo) GetByID(ctx context.Context, id string) (perdidas.RegistroPerdida, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return perdidas.RegistroPerdida{}, ErrNotFound
	}
	return p, nil
}

func (r *perdidasRepo) GetByUUIDLocal(ctx context.Context, uuidLocal string) (perdidas.RegistroPerdida, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUUIDLocal[uuidLocal]
	if !ok {
		return perdidas.RegistroPerdida{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *perdidasRepo) ListByUsuario(ctx context.Context, userID string) ([]perdidas.RegistroPerdida, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]perdidas.RegistroPerdida, 0)
	for _, p := range r.byID {
		if p.RegistradoPor == userID {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaRegistro.Before(out[j].FechaRegistro)
	})
	return out, nil
}

func (r *perdidasRepo) ListAll(ctx context.Context) ([]perdidas.RegistroPerdida, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]perdidas.RegistroPerdida, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaRegistro.Before(out[j].FechaRegistro)
	})
	return out, nil
}
