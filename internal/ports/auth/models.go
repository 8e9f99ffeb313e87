package auth

// Claims representa la identidad resuelta a partir de un token de sesión.
type Claims struct {
	UserID    string
	Username  string
	SessionID string
}
