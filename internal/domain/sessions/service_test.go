package sessions

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byToken map[string]Session
}

func newTestRepo() *testRepo {
	return &testRepo{byToken: map[string]Session{}}
}

func (r *testRepo) Create(ctx context.Context, s Session) error {
	if s.Token == "" {
		return errors.New("repo: token required")
	}
	r.byToken[s.Token] = s
	return nil
}

func (r *testRepo) GetByToken(ctx context.Context, token string) (Session, error) {
	s, ok := r.byToken[token]
	if !ok {
		return Session{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) Update(ctx context.Context, s Session) error {
	if _, ok := r.byToken[s.Token]; !ok {
		return errRepoNotFound
	}
	r.byToken[s.Token] = s
	return nil
}

func (r *testRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	for token, s := range r.byToken {
		if s.UserID == userID && !s.Revoked() {
			revokedAt := at
			s.RevokedAt = &revokedAt
			r.byToken[token] = s
		}
	}
	return nil
}

func (r *testRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	n := 0
	for token, s := range r.byToken {
		if s.Expired(now) {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Issue_Then_Verify(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, 24*time.Hour)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess, err := svc.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if sess.ExpiresAt != now.Add(24*time.Hour) {
		t.Fatalf("expected expiry now+ttl, got %v", sess.ExpiresAt)
	}

	got, err := svc.Verify(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("expected user-1, got %s", got.UserID)
	}
}

func TestService_Verify_TouchesLastSeen_WithoutExtendingExpiry(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, 24*time.Hour)

	issued := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	sess, err := svc.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	later := issued.Add(3 * time.Hour)
	svc.now = func() time.Time { return later }

	got, err := svc.Verify(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.LastSeenAt != later {
		t.Fatalf("expected LastSeenAt updated to %v, got %v", later, got.LastSeenAt)
	}
	if got.ExpiresAt != sess.ExpiresAt {
		t.Fatalf("expiry must not move on Verify")
	}
}

func TestService_Verify_Expired(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, time.Hour)

	issued := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	sess, err := svc.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// exactamente en expires_at ya no es válida
	svc.now = func() time.Time { return issued.Add(time.Hour) }
	if _, err := svc.Verify(context.Background(), sess.Token); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestService_Verify_UnknownToken(t *testing.T) {
	svc := NewService(newTestRepo(), time.Hour)

	if _, err := svc.Verify(context.Background(), "no-such-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), ""); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestService_Revoke_InvalidatesToken_AndIsIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, time.Hour)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess, err := svc.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if err := svc.Revoke(context.Background(), sess.Token); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if _, err := svc.Verify(context.Background(), sess.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after revoke, got %v", err)
	}

	// idempotente
	if err := svc.Revoke(context.Background(), sess.Token); err != nil {
		t.Fatalf("Revoke #2 error: %v", err)
	}
}

func TestService_RevokeAllForUser(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, time.Hour)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	s1, _ := svc.Issue(context.Background(), "user-1")
	s2, _ := svc.Issue(context.Background(), "user-1")
	other, _ := svc.Issue(context.Background(), "user-2")

	if err := svc.RevokeAllForUser(context.Background(), "user-1"); err != nil {
		t.Fatalf("RevokeAllForUser error: %v", err)
	}

	if _, err := svc.Verify(context.Background(), s1.Token); err != ErrInvalidToken {
		t.Fatalf("expected s1 revoked, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), s2.Token); err != ErrInvalidToken {
		t.Fatalf("expected s2 revoked, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), other.Token); err != nil {
		t.Fatalf("expected user-2 session untouched, got %v", err)
	}
}

func TestService_PurgeExpired_CountsDeleted(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, time.Hour)

	issued := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	_, _ = svc.Issue(context.Background(), "user-1")
	_, _ = svc.Issue(context.Background(), "user-2")

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	live, err := svc.Issue(context.Background(), "user-3")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	n, err := svc.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged, got %d", n)
	}
	if _, err := svc.Verify(context.Background(), live.Token); err != nil {
		t.Fatalf("expected live session to survive purge, got %v", err)
	}
}
