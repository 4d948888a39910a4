package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vetcontrol/internal/domain/responsables"
)

type responsablesRepo struct {
	mu   sync.RWMutex
	byID map[string]responsables.Responsable
}

func NewResponsablesRepo() responsables.Repository {
	return &responsablesRepo{
		byID: make(map[string]responsables.Responsable),
	}
}

func (r *responsablesRepo) Create(ctx context.Context, item responsables.Responsable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(item.ID) == "" {
		return errors.New("responsable id required")
	}
	if _, exists := r.byID[item.ID]; exists {
		return errors.New("responsable already exists")
	}
	r.byID[item.ID] = item
	return nil
}

func (r *responsablesRepo) Update(ctx context.Context, item responsables.Responsable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(item.ID) == "" {
		return errors.New("responsable id required")
	}
	if _, exists := r.byID[item.ID]; !exists {
		return ErrNotFound
	}
	r.byID[item.ID] = item
	return nil
}

func (r *responsablesRepo) GetByID(ctx context.Context, id string) (responsables.Responsable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return responsables.Responsable{}, ErrNotFound
	}
	return item, nil
}

func (r *responsablesRepo) ListByPlanilla(ctx context.Context, planillaID string) ([]responsables.Responsable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]responsables.Responsable, 0)
	for _, item := range r.byID {
		if item.PlanillaID == planillaID {
			out = append(out, item)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Creado.Before(out[j].Creado)
	})
	return out, nil
}

func (r *responsablesRepo) ListAll(ctx context.Context) ([]responsables.Responsable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]responsables.Responsable, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Creado.Before(out[j].Creado)
	})
	return out, nil
}

func (r *responsablesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
