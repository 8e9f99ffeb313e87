package animals

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"reptile-husbandry/internal/middleware"
	"reptile-husbandry/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))
	})
}

type createAnimalRequest struct {
	Name       string `json:"name"`
	Species    string `json:"species"`
	Morph      string `json:"morph"`
	Sex        string `json:"sex"`
	HatchDate  string `json:"hatch_date"`  // YYYY-MM-DD opcional
	AcquiredAt string `json:"acquired_at"` // YYYY-MM-DD opcional
	Notes      string `json:"notes"`
}

type animalResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Morph       string     `json:"morph,omitempty"`
	Sex         string     `json:"sex"`
	HatchDate   *time.Time `json:"hatch_date,omitempty"`
	AcquiredAt  *time.Time `json:"acquired_at,omitempty"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string `json:"name"`
	Species *string `json:"species"`
	Morph   *string `json:"morph"`
	Sex     *string `json:"sex"`
	Notes   *string `json:"notes"`
	// hatch_date / acquired_at se leen del raw map para distinguir
	// "no enviado" de null (ver updateAnimalHandler).
}

// createAnimalHandler registra un animal del usuario autenticado.
// @Summary Crear animal
// @Tags animals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} animalResponse
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(req.Name) == "" {
			fields["name"] = "required"
		}

		hatch, err := parseOptionalDate(req.HatchDate)
		if err != nil {
			fields["hatch_date"] = "must be YYYY-MM-DD"
		}
		acquired, err := parseOptionalDate(req.AcquiredAt)
		if err != nil {
			fields["acquired_at"] = "must be YYYY-MM-DD"
		}
		if len(fields) > 0 {
			httpx.WriteFieldErrors(w, fields)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:       req.Name,
			Species:    req.Species,
			Morph:      req.Morph,
			Sex:        req.Sex,
			HatchDate:  hatch,
			AcquiredAt: acquired,
			Notes:      req.Notes,
		})
		if err != nil {
			switch err {
			case ErrNameTaken:
				httpx.WriteError(w, http.StatusConflict, "animal name already in use")
			case ErrInvalidInput:
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			default:
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler lista los animales del usuario autenticado.
// @Summary Listar animales
// @Tags animals
// @Security BearerAuth
// @Produce json
// @Success 200 {array} animalResponse
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Perfil de animal
// @Tags animals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} animalResponse
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		a, err := svc.GetOwned(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "animal not found")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler aplica un PATCH al perfil.
// Para hatch_date/acquired_at hay que distinguir "no enviado" de null
// (null limpia la fecha), así que primero decodificamos a raw map.
// @Summary Actualizar animal
// @Tags animals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} animalResponse
// @Router /animals/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
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

		// Campos simples: re-marshal del raw para reutilizar los tags.
		var req updateAnimalRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		hatch, err := patchDate(raw, "hatch_date")
		if err != nil {
			httpx.WriteFieldErrors(w, map[string]string{"hatch_date": "must be YYYY-MM-DD or null"})
			return
		}
		acquired, err := patchDate(raw, "acquired_at")
		if err != nil {
			httpx.WriteFieldErrors(w, map[string]string{"acquired_at": "must be YYYY-MM-DD or null"})
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, UpdateProfileInput{
			Name:       req.Name,
			Species:    req.Species,
			Morph:      req.Morph,
			Sex:        req.Sex,
			Notes:      req.Notes,
			HatchDate:  hatch,
			AcquiredAt: acquired,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			case ErrNameTaken:
				httpx.WriteError(w, http.StatusConflict, "animal name already in use")
			case ErrNotFound:
				httpx.WriteError(w, http.StatusNotFound, "animal not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toAnimalResponse(updated))
	}
}

// deleteAnimalHandler borra el animal y cascadea sus registros.
// @Summary Borrar animal
// @Tags animals
// @Security BearerAuth
// @Success 204
// @Router /animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID"), claims.UserID); err != nil {
			switch err {
			case ErrNotFound:
				httpx.WriteError(w, http.StatusNotFound, "animal not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		Name:        a.Name,
		Species:     a.Species,
		Morph:       a.Morph,
		Sex:         string(a.Sex),
		HatchDate:   a.HatchDate,
		AcquiredAt:  a.AcquiredAt,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// patchDate lee una fecha de un PATCH: ausente, null (limpiar) o YYYY-MM-DD.
func patchDate(raw map[string]json.RawMessage, key string) (OptionalDate, error) {
	v, exists := raw[key]
	if !exists {
		return OptionalDate{}, nil
	}
	if string(v) == "null" {
		return OptionalDate{Set: true, Value: nil}, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return OptionalDate{}, err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return OptionalDate{}, err
	}
	return OptionalDate{Set: true, Value: &t}, nil
}
