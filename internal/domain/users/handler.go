package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"reptile-husbandry/internal/domain/sessions"
	"reptile-husbandry/internal/middleware"
	"reptile-husbandry/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, sessionsSvc *sessions.Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc, sessionsSvc))
		ar.Post("/logout", logoutHandler(sessionsSvc))
		ar.Get("/me", meHandler(svc))
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// registerHandler crea una cuenta nueva.
// @Summary Registrar usuario
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} userResponse
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Validación con detalle por campo para el formulario del cliente.
		fields := map[string]string{}
		if strings.TrimSpace(req.Username) == "" {
			fields["username"] = "required"
		} else if !ValidUsername(req.Username) {
			fields["username"] = "must be 3-32 chars: a-z, 0-9, dot, dash, underscore"
		}
		if req.Password == "" {
			fields["password"] = "required"
		} else if !ValidPassword(req.Password) {
			fields["password"] = "must be at least 8 characters"
		}
		if len(fields) > 0 {
			httpx.WriteFieldErrors(w, fields)
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			switch err {
			case ErrUsernameTaken:
				httpx.WriteError(w, http.StatusConflict, "username already taken")
			case ErrInvalidInput:
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			default:
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// loginHandler valida credenciales y emite un token de sesión.
// El cliente cachea token + expires_at para seguir operando offline.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Router /auth/login [post]
func loginHandler(svc *Service, sessionsSvc *sessions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sess, err := sessionsSvc.Issue(r.Context(), u.ID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt,
			User:      toUserResponse(u),
		})
	}
}

// logoutHandler revoca el token presentado. Idempotente: revocar un token
// ya revocado también responde 204.
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func logoutHandler(sessionsSvc *sessions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Un token desconocido no es error para el cliente: ya no sirve.
		_ = sessionsSvc.Revoke(r.Context(), token)
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler devuelve el perfil del usuario autenticado.
// @Summary Usuario actual
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} userResponse
// @Router /auth/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
