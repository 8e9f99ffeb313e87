package sessiontoken

import (
	"context"
	"errors"
	"strings"

	"reptile-husbandry/internal/domain/sessions"
	"reptile-husbandry/internal/domain/users"
	"reptile-husbandry/internal/ports/auth"
)

var ErrNotConfigured = errors.New("session verifier not configured")

// Verifier implementa auth.AuthVerifier contra el almacén de sesiones local.
// A diferencia de un IAM externo, acá el token es first-party: se resuelve
// con una lectura de sesión + una de usuario.
type Verifier struct {
	sessions *sessions.Service
	users    *users.Service
}

func NewVerifier(sessionsSvc *sessions.Service, usersSvc *users.Service) *Verifier {
	return &Verifier{sessions: sessionsSvc, users: usersSvc}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.sessions == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, sessions.ErrInvalidToken
	}

	sess, err := v.sessions.Verify(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}

	claims := auth.Claims{
		UserID:    sess.UserID,
		SessionID: sess.ID,
	}

	// Username es informativo en claims; si el lookup falla igual dejamos
	// pasar con el user id, que es lo que scopea todo.
	if v.users != nil {
		if u, err := v.users.GetByID(ctx, sess.UserID); err == nil {
			claims.Username = u.Username
		}
	}

	return claims, nil
}
