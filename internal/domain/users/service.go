package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// username: 3-32 chars, minúsculas, dígitos y . _ -
var usernameRe = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)

const minPasswordLen = 8

type Service struct {
	repo Repository
	now  func() time.Time

	// bcrypt cost, inyectable para bajarlo en tests
	hashCost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NormalizeUsername deja el username como se persiste: trim + lowercase.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidUsername(s string) bool {
	return usernameRe.MatchString(NormalizeUsername(s))
}

func ValidPassword(s string) bool {
	return len(s) >= minPasswordLen
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	username := NormalizeUsername(in.Username)
	if !usernameRe.MatchString(username) {
		return User{}, ErrInvalidInput
	}
	if !ValidPassword(in.Password) {
		return User{}, ErrInvalidInput
	}

	// Chequeo previo; el índice único en Postgres es el backstop real.
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return u, nil
}

// Authenticate valida username+password. Falla con ErrInvalidCredentials
// tanto para usuario inexistente como para password incorrecto, sin
// distinguirlos hacia el cliente.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		// igualar costo aproximado del camino feliz
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByUsername(ctx, username)
}
