package reminders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reptile-husbandry/internal/domain/animals"
	"reptile-husbandry/internal/middleware"
	"reptile-husbandry/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Post("/", createReminderHandler(svc, animalsSvc))
		rr.Get("/", listRemindersHandler(svc))

		rr.Get("/{reminderID}", getReminderHandler(svc))
		rr.Patch("/{reminderID}", updateReminderHandler(svc))
		rr.Delete("/{reminderID}", deleteReminderHandler(svc))

		rr.Post("/{reminderID}/complete", completeReminderHandler(svc))
	})
}

type createReminderRequest struct {
	AnimalID *string `json:"animal_id"`
	Title    string  `json:"title"`
	Notes    string  `json:"notes"`
	DueAt    string  `json:"due_at"` // RFC3339 opcional
	Repeat   string  `json:"repeat"`
}

type updateReminderRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Title  *string `json:"title"`
	Notes  *string `json:"notes"`
	Repeat *string `json:"repeat"`
	// due_at se lee del raw map: null limpia la fecha.
}

type reminderResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	AnimalID  *string    `json:"animal_id,omitempty"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Repeat    string     `json:"repeat"`
	Done      bool       `json:"done"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// createReminderHandler crea un reminder; si viene animal_id tiene que ser
// un animal del usuario (ajeno o inexistente => 404).
// @Summary Crear reminder
// @Tags reminders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} reminderResponse
// @Router /reminders [post]
func createReminderHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(req.Title) == "" {
			fields["title"] = "required"
		}
		var dueAt *time.Time
		if strings.TrimSpace(req.DueAt) != "" {
			t, err := time.Parse(time.RFC3339, req.DueAt)
			if err != nil {
				fields["due_at"] = "must be RFC3339"
			} else {
				dueAt = &t
			}
		}
		if repeat := Repeat(strings.TrimSpace(req.Repeat)); repeat != "" && !ValidRepeat(repeat) {
			fields["repeat"] = "must be one of: none, daily, weekly, monthly"
		}
		if len(fields) > 0 {
			httpx.WriteFieldErrors(w, fields)
			return
		}

		if req.AnimalID != nil {
			if _, err := animalsSvc.GetOwned(r.Context(), *req.AnimalID, claims.UserID); err != nil {
				httpx.WriteError(w, http.StatusNotFound, "animal not found")
				return
			}
		}

		created, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			AnimalID: req.AnimalID,
			Title:    req.Title,
			Notes:    req.Notes,
			DueAt:    dueAt,
			Repeat:   req.Repeat,
		})
		if err != nil {
			if err == ErrInvalidInput {
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toReminderResponse(created))
	}
}

// listRemindersHandler lista reminders del usuario. Filtros:
// include_done (default false), animal_id, due_before (RFC3339).
// @Summary Listar reminders
// @Tags reminders
// @Security BearerAuth
// @Produce json
// @Success 200 {array} reminderResponse
// @Router /reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var filter ListFilter
		q := r.URL.Query()

		if v := strings.TrimSpace(q.Get("include_done")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid query param: include_done")
				return
			}
			filter.IncludeDone = b
		}
		filter.AnimalID = strings.TrimSpace(q.Get("animal_id"))
		if v := strings.TrimSpace(q.Get("due_before")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid query param: due_before")
				return
			}
			filter.DueBefore = &t
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID, filter)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, rem := range items {
			out = append(out, toReminderResponse(rem))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Detalle de reminder
// @Tags reminders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} reminderResponse
// @Router /reminders/{reminderID} [get]
func getReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		rem, err := svc.GetOwned(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "reminder not found")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

// updateReminderHandler aplica un PATCH. due_at: null limpia la fecha, así
// que se decodifica primero a raw map para detectar presencia.
// @Summary Actualizar reminder
// @Tags reminders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} reminderResponse
// @Router /reminders/{reminderID} [patch]
func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updateReminderRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		dueAt := OptionalTime{}
		if v, exists := raw["due_at"]; exists {
			dueAt.Set = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpx.WriteFieldErrors(w, map[string]string{"due_at": "must be RFC3339 or null"})
					return
				}
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					httpx.WriteFieldErrors(w, map[string]string{"due_at": "must be RFC3339 or null"})
					return
				}
				dueAt.Value = &t
			}
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID, UpdateInput{
			Title:  req.Title,
			Notes:  req.Notes,
			DueAt:  dueAt,
			Repeat: req.Repeat,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			case ErrNotFound:
				httpx.WriteError(w, http.StatusNotFound, "reminder not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toReminderResponse(updated))
	}
}

// completeReminderHandler marca hecho; si repite, rueda due_at al próximo
// período y el reminder sigue abierto.
// @Summary Completar reminder
// @Tags reminders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} reminderResponse
// @Router /reminders/{reminderID}/complete [post]
func completeReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		updated, err := svc.Complete(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID)
		if err != nil {
			if err == ErrNotFound {
				httpx.WriteError(w, http.StatusNotFound, "reminder not found")
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toReminderResponse(updated))
	}
}

// @Summary Borrar reminder
// @Tags reminders
// @Security BearerAuth
// @Success 204
// @Router /reminders/{reminderID} [delete]
func deleteReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID); err != nil {
			if err == ErrNotFound {
				httpx.WriteError(w, http.StatusNotFound, "reminder not found")
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toReminderResponse(rem Reminder) reminderResponse {
	return reminderResponse{
		ID:        rem.ID,
		UserID:    rem.UserID,
		AnimalID:  rem.AnimalID,
		Title:     rem.Title,
		Notes:     rem.Notes,
		DueAt:     rem.DueAt,
		Repeat:    string(rem.Repeat),
		Done:      rem.Done(),
		DoneAt:    rem.DoneAt,
		CreatedAt: rem.CreatedAt,
		UpdatedAt: rem.UpdatedAt,
	}
}
