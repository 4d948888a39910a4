package responsables

import "context"

type Repository interface {
	Create(ctx context.Context, r Responsable) error
	Update(ctx context.Context, r Responsable) error
	GetByID(ctx context.Context, id string) (Responsable, error)
	ListByPlanilla(ctx context.Context, planillaID string) ([]Responsable, error)
	ListAll(ctx context.Context) ([]Responsable, error)
	Delete(ctx context.Context, id string) error
}
