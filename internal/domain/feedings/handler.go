package feedings

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

// RegisterRoutes cuelga feedings debajo del animal; animalsSvc resuelve
// ownership (animal ajeno => 404, sin revelar existencia).
func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service) {
	r.Route("/animals/{animalID}/feedings", func(fr chi.Router) {
		fr.Post("/", createFeedingHandler(svc, animalsSvc))
		fr.Get("/", listFeedingsHandler(svc, animalsSvc))

		fr.Get("/{feedingID}", getFeedingHandler(svc, animalsSvc))
		fr.Patch("/{feedingID}", updateFeedingHandler(svc, animalsSvc))
		fr.Delete("/{feedingID}", deleteFeedingHandler(svc, animalsSvc))
	})
}

type createFeedingRequest struct {
	FedAt    string `json:"fed_at"` // RFC3339
	FoodType string `json:"food_type"`
	PreySize string `json:"prey_size"`
	Quantity int    `json:"quantity"`
	Refused  bool   `json:"refused"`
	Notes    string `json:"notes"`
}

type updateFeedingRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	FedAt    *string `json:"fed_at"`
	FoodType *string `json:"food_type"`
	PreySize *string `json:"prey_size"`
	Quantity *int    `json:"quantity"`
	Refused  *bool   `json:"refused"`
	Notes    *string `json:"notes"`
}

type feedingResponse struct {
	ID         string    `json:"id"`
	AnimalID   string    `json:"animal_id"`
	FedAt      time.Time `json:"fed_at"`
	FoodType   string    `json:"food_type"`
	PreySize   string    `json:"prey_size,omitempty"`
	Quantity   int       `json:"quantity"`
	Refused    bool      `json:"refused"`
	Notes      string    `json:"notes"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ownedAnimal resuelve el animal del path scopeado al usuario autenticado.
// Devuelve false si ya respondió (401/404).
func ownedAnimal(w http.ResponseWriter, r *http.Request, animalsSvc *animals.Service) (animals.Animal, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return animals.Animal{}, false
	}

	a, err := animalsSvc.GetOwned(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "animal not found")
		return animals.Animal{}, false
	}
	return a, true
}

// createFeedingHandler registra una alimentación.
// @Summary Registrar alimentación
// @Tags feedings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} feedingResponse
// @Router /animals/{animalID}/feedings [post]
func createFeedingHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		var req createFeedingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		fields := map[string]string{}
		var fedAt time.Time
		if strings.TrimSpace(req.FedAt) == "" {
			fields["fed_at"] = "required"
		} else {
			t, err := time.Parse(time.RFC3339, req.FedAt)
			if err != nil {
				fields["fed_at"] = "must be RFC3339"
			} else {
				fedAt = t
			}
		}
		if req.Quantity < 0 {
			fields["quantity"] = "must be >= 1"
		}
		if len(fields) > 0 {
			httpx.WriteFieldErrors(w, fields)
			return
		}

		f, err := svc.Create(r.Context(), a.ID, CreateInput{
			FedAt:    fedAt,
			FoodType: req.FoodType,
			PreySize: req.PreySize,
			Quantity: req.Quantity,
			Refused:  req.Refused,
			Notes:    req.Notes,
		})
		if err != nil {
			if err == ErrInvalidInput {
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toFeedingResponse(f))
	}
}

// listFeedingsHandler lista alimentaciones con filtros opcionales:
// from/to (RFC3339), refused (true/false), limit.
// @Summary Listar alimentaciones
// @Tags feedings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} feedingResponse
// @Router /animals/{animalID}/feedings [get]
func listFeedingsHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := svc.ListByAnimal(r.Context(), a.ID, filter)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]feedingResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toFeedingResponse(f))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Detalle de alimentación
// @Tags feedings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} feedingResponse
// @Router /animals/{animalID}/feedings/{feedingID} [get]
func getFeedingHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		f, err := svc.GetForAnimal(r.Context(), a.ID, chi.URLParam(r, "feedingID"))
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "feeding record not found")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toFeedingResponse(f))
	}
}

// @Summary Corregir alimentación
// @Tags feedings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} feedingResponse
// @Router /animals/{animalID}/feedings/{feedingID} [patch]
func updateFeedingHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		var req updateFeedingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var fedAt *time.Time
		if req.FedAt != nil {
			t, err := time.Parse(time.RFC3339, *req.FedAt)
			if err != nil {
				httpx.WriteFieldErrors(w, map[string]string{"fed_at": "must be RFC3339"})
				return
			}
			fedAt = &t
		}

		updated, err := svc.Update(r.Context(), a.ID, chi.URLParam(r, "feedingID"), UpdateInput{
			FedAt:    fedAt,
			FoodType: req.FoodType,
			PreySize: req.PreySize,
			Quantity: req.Quantity,
			Refused:  req.Refused,
			Notes:    req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			case ErrNotFound:
				httpx.WriteError(w, http.StatusNotFound, "feeding record not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toFeedingResponse(updated))
	}
}

// @Summary Borrar alimentación
// @Tags feedings
// @Security BearerAuth
// @Success 204
// @Router /animals/{animalID}/feedings/{feedingID} [delete]
func deleteFeedingHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), a.ID, chi.URLParam(r, "feedingID")); err != nil {
			if err == ErrNotFound {
				httpx.WriteError(w, http.StatusNotFound, "feeding record not found")
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errBadQuery("from")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errBadQuery("to")
		}
		filter.To = &t
	}
	if v := strings.TrimSpace(q.Get("refused")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ListFilter{}, errBadQuery("refused")
		}
		filter.Refused = &b
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListFilter{}, errBadQuery("limit")
		}
		filter.Limit = n
	}

	return filter, nil
}

type badQueryError string

func (e badQueryError) Error() string { return "invalid query param: " + string(e) }

func errBadQuery(param string) error { return badQueryError(param) }

func toFeedingResponse(f FeedingRecord) feedingResponse {
	return feedingResponse{
		ID:         f.ID,
		AnimalID:   f.AnimalID,
		FedAt:      f.FedAt,
		FoodType:   f.FoodType,
		PreySize:   string(f.PreySize),
		Quantity:   f.Quantity,
		Refused:    f.Refused,
		Notes:      f.Notes,
		RecordedAt: f.RecordedAt,
	}
}
