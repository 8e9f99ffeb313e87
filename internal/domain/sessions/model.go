package sessions

import "time"

// Session es un login vigente. El token es opaco (uuid) y viaja como Bearer.
// La expiración es fija desde la emisión: el cliente cachea expires_at para
// decidir offline si su sesión local sigue siendo usable.
type Session struct {
	ID    string
	Token string

	UserID string

	IssuedAt   time.Time
	ExpiresAt  time.Time
	LastSeenAt time.Time
	RevokedAt  *time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s Session) Revoked() bool {
	return s.RevokedAt != nil
}
