package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByUsername busca por username ya normalizado (lowercase).
	GetByUsername(ctx context.Context, username string) (User, error)
}
