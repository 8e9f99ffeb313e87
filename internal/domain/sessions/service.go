package sessions

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpired      = errors.New("session expired")
)

// DefaultTTL: 30 días, pensado para un cliente móvil que no quiere
// re-loguear seguido.
const DefaultTTL = 30 * 24 * time.Hour

type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTLFromEnv lee SESSION_TTL (formato time.ParseDuration, ej "720h").
func TTLFromEnv() time.Duration {
	v := strings.TrimSpace(os.Getenv("SESSION_TTL"))
	if v == "" {
		return DefaultTTL
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return DefaultTTL
	}
	return d
}

// Issue emite una sesión nueva para userID.
func (s *Service) Issue(ctx context.Context, userID string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, errors.New("user id required")
	}

	now := s.now()
	sess := Session{
		ID:         uuid.NewString(),
		Token:      uuid.NewString(),
		UserID:     userID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl),
		LastSeenAt: now,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Verify valida un token. Expirada o revocada => error; si es válida,
// actualiza last_seen_at (best effort, no extiende la expiración).
func (s *Service) Verify(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrInvalidToken
	}

	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	now := s.now()
	if sess.Revoked() {
		return Session{}, ErrInvalidToken
	}
	if sess.Expired(now) {
		return Session{}, ErrExpired
	}

	sess.LastSeenAt = now
	if err := s.repo.Update(ctx, sess); err != nil {
		// last_seen es telemetría; no invalidamos la sesión por esto
		return sess, nil
	}
	return sess, nil
}

// Revoke invalida el token presentado (logout).
func (s *Service) Revoke(ctx context.Context, token string) error {
	sess, err := s.repo.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return ErrInvalidToken
	}
	if sess.Revoked() {
		return nil
	}
	at := s.now()
	sess.RevokedAt = &at
	return s.repo.Update(ctx, sess)
}

// RevokeAllForUser invalida todas las sesiones del usuario.
func (s *Service) RevokeAllForUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id required")
	}
	return s.repo.RevokeAllForUser(ctx, userID, s.now())
}

// PurgeExpired borra sesiones vencidas. Lo llama el janitor.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
