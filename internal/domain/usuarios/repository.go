package usuarios

import "context"

type Repository interface {
	Create(ctx context.Context, v Veterinario) error
	GetByID(ctx context.Context, id string) (Veterinario, error)
	GetByUsername(ctx context.Context, username string) (Veterinario, error)
	ListByRol(ctx context.Context, rol Rol) ([]Veterinario, error)
	ListAll(ctx context.Context) ([]Veterinario, error)
}
