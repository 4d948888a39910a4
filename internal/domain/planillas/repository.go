package planillas

import "context"

type Repository interface {
	Create(ctx context.Context, p Planilla) error
	GetByID(ctx context.Context, id string) (Planilla, error)
	ListAll(ctx context.Context) ([]Planilla, error)
	Delete(ctx context.Context, id string) error
}
