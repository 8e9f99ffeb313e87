package users

import "time"

// User representa una cuenta del sistema.
// PasswordHash nunca se serializa hacia afuera.
type User struct {
	ID       string
	Username string
	Email    string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
