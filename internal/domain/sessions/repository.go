package sessions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	Update(ctx context.Context, s Session) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) error
	// DeleteExpired borra sesiones con expires_at <= now. Devuelve cuántas.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
