package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"reptile-husbandry/internal/domain/sessions"
)

type sessionsRepo struct {
	mu      sync.RWMutex
	byToken map[string]sessions.Session
}

func NewSessionsRepo() sessions.Repository {
	return &sessionsRepo{
		byToken: make(map[string]sessions.Session),
	}
}

func (r *sessionsRepo) Create(ctx context.Context, s sessions.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.Token) == "" {
		return errors.New("session token required")
	}
	if _, exists := r.byToken[s.Token]; exists {
		return errors.New("session already exists")
	}
	r.byToken[s.Token] = s
	return nil
}

func (r *sessionsRepo) GetByToken(ctx context.Context, token string) (sessions.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byToken[token]
	if !ok {
		return sessions.Session{}, ErrNotFound
	}
	return s, nil
}

func (r *sessionsRepo) Update(ctx context.Context, s sessions.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byToken[s.Token]; !exists {
		return ErrNotFound
	}
	r.byToken[s.Token] = s
	return nil
}

func (r *sessionsRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, s := range r.byToken {
		if s.UserID != userID || s.Revoked() {
			continue
		}
		revokedAt := at
		s.RevokedAt = &revokedAt
		r.byToken[token] = s
	}
	return nil
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for token, s := range r.byToken {
		if s.Expired(now) {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}
