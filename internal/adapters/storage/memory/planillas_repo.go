package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vetcontrol/internal/domain/planillas"
)

type planillasRepo struct {
	mu   sync.RWMutex
	byID map[string]planillas.Planilla
}

func NewPlanillasRepo() planillas.Repository {
	return &planillasRepo{
		byID: make(map[string]planillas.Planilla),
	}
}

func (r *planillasRepo) Create(ctx context.Context, p planillas.Planilla) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("planilla id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("planilla already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *planillasRepo) GetByID(ctx context.Context, id string) (planillas.Planilla, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return planillas.Planilla{}, ErrNotFound
	}
	return p, nil
}

func (r *planillasRepo) ListAll(ctx context.Context) ([]planillas.Planilla, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]planillas.Planilla, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	// Orden estable por fecha de creación asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Creada.Before(out[j].Creada)
	})
	return out, nil
}

func (r *planillasRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
