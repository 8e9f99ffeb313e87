package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"reptile-husbandry/internal/domain/sessions"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) Create(ctx context.Context, s sessions.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, token, user_id,
			issued_at, expires_at, last_seen_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		s.ID,
		s.Token,
		s.UserID,
		s.IssuedAt,
		s.ExpiresAt,
		s.LastSeenAt,
		toNullTime(s.RevokedAt),
	)
	return err
}

func (r *SessionsRepo) GetByToken(ctx context.Context, token string) (sessions.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return sessions.Session{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, token, user_id, issued_at, expires_at, last_seen_at, revoked_at
		FROM sessions
		WHERE token = $1
	`, token)

	var s sessions.Session
	var revokedAt sql.NullTime
	if err := row.Scan(
		&s.ID,
		&s.Token,
		&s.UserID,
		&s.IssuedAt,
		&s.ExpiresAt,
		&s.LastSeenAt,
		&revokedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return sessions.Session{}, ErrNotFound
		}
		return sessions.Session{}, err
	}

	s.RevokedAt = fromNullTime(revokedAt)
	return s, nil
}

func (r *SessionsRepo) Update(ctx context.Context, s sessions.Session) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET last_seen_at = $2,
		    revoked_at = $3
		WHERE id = $1
	`,
		s.ID,
		s.LastSeenAt,
		toNullTime(s.RevokedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionsRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET revoked_at = $2
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID, at)
	return err
}

func (r *SessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
