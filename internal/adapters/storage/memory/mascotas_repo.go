package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vetcontrol/internal/domain/mascotas"
)

type mascotasRepo struct {
	mu   sync.RWMutex
	byID map[string]mascotas.Mascota
}

func NewMascotasRepo() mascotas.Repository {
	return &mascotasRepo{
		byID: make(map[string]mascotas.Mascota),
	}
}

func (r *mascotasRepo) Create(ctx context.Context, m mascotas.Mascota) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("mascota id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("mascota already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *mascotasRepo) Update(ctx context.Context, m mascotas.Mascota) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("mascota id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *mascotasRepo) GetByID(ctx context.Context, id string) (mascotas.Mascota, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return mascotas.Mascota{}, ErrNotFound
	}
	return m, nil
}

func (r *mascotasRepo) ListByResponsable(ctx context.Context, responsableID string) ([]mascotas.Mascota, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mascotas.Mascota, 0)
	for _, m := range r.byID {
		if m.ResponsableID == responsableID {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Creado.Before(out[j].Creado)
	})
	return out, nil
}

func (r *mascotasRepo) ListAll(ctx context.Context) ([]mascotas.Mascota, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mascotas.Mascota, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Creado.Before(out[j].Creado)
	})
	return out, nil
}

func (r *mascotasRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
