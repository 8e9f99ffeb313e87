package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error)
	// GetByOwnerAndName busca por nombre normalizado (case-insensitive).
	GetByOwnerAndName(ctx context.Context, ownerUserID, name string) (Animal, error)
	Delete(ctx context.Context, id string) error
}
