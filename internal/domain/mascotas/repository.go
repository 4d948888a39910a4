package mascotas

import "context"

type Repository interface {
	Create(ctx context.Context, m Mascota) error
	Update(ctx context.Context, m Mascota) error
	GetByID(ctx context.Context, id string) (Mascota, error)
	ListByResponsable(ctx context.Context, responsableID string) ([]Mascota, error)
	ListAll(ctx context.Context) ([]Mascota, error)
	Delete(ctx context.Context, id string) error
}
