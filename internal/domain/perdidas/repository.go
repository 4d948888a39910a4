package perdidas

import "context"

type Repository interface {
	Create(ctx context.Context, p RegistroPerdida) error
	Update(ctx context.Context, p RegistroPerdida) error
	GetByID(ctx context.Context, id string) (RegistroPerdida, error)
	GetByUUIDLocal(ctx context.Context, uuidLocal string) (RegistroPerdida, error)
	ListByUsuario(ctx context.Context, userID string) ([]RegistroPerdida, error)
	ListAll(ctx context.Context) ([]RegistroPerdida, error)
}
