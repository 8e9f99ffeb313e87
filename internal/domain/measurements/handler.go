package measurements

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
	r.Route("/animals/{animalID}/measurements", func(mr chi.Router) {
		mr.Post("/", createMeasurementHandler(svc, animalsSvc))
		mr.Get("/", listMeasurementsHandler(svc, animalsSvc))

		// /latest antes que /{measurementID} para que chi no lo capture como id
		mr.Get("/latest", latestMeasurementsHandler(svc, animalsSvc))

		mr.Get("/{measurementID}", getMeasurementHandler(svc, animalsSvc))
		mr.Delete("/{measurementID}", deleteMeasurementHandler(svc, animalsSvc))
	})
}

type createMeasurementRequest struct {
	Kind       string  `json:"kind"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	MeasuredAt string  `json:"measured_at"` // RFC3339
	Notes      string  `json:"notes"`
}

type measurementResponse struct {
	ID         string    `json:"id"`
	AnimalID   string    `json:"animal_id"`
	Kind       string    `json:"kind"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	MeasuredAt time.Time `json:"measured_at"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

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

// createMeasurementHandler registra una medición.
// @Summary Registrar medición
// @Tags measurements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} measurementResponse
// @Router /animals/{animalID}/measurements [post]
func createMeasurementHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		var req createMeasurementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		fields := map[string]string{}
		if !ValidKind(Kind(strings.TrimSpace(req.Kind))) {
			fields["kind"] = "must be one of: weight, length, temperature, humidity"
		}
		var measuredAt time.Time
		if strings.TrimSpace(req.MeasuredAt) == "" {
			fields["measured_at"] = "required"
		} else {
			t, err := time.Parse(time.RFC3339, req.MeasuredAt)
			if err != nil {
				fields["measured_at"] = "must be RFC3339"
			} else {
				measuredAt = t
			}
		}
		if len(fields) > 0 {
			httpx.WriteFieldErrors(w, fields)
			return
		}

		m, err := svc.Create(r.Context(), a.ID, CreateInput{
			Kind:       req.Kind,
			Value:      req.Value,
			Unit:       req.Unit,
			MeasuredAt: measuredAt,
			Notes:      req.Notes,
		})
		if err != nil {
			if err == ErrInvalidInput {
				httpx.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toMeasurementResponse(m))
	}
}

// listMeasurementsHandler lista mediciones. Filtros: kind (repetible),
// from/to (RFC3339), limit.
// @Summary Listar mediciones
// @Tags measurements
// @Security BearerAuth
// @Produce json
// @Success 200 {array} measurementResponse
// @Router /animals/{animalID}/measurements [get]
func listMeasurementsHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		var filter ListFilter
		q := r.URL.Query()

		for _, v := range q["kind"] {
			k := Kind(strings.TrimSpace(v))
			if !ValidKind(k) {
				httpx.WriteError(w, http.StatusBadRequest, "invalid query param: kind")
				return
			}
			filter.Kinds = append(filter.Kinds, k)
		}
		if v := strings.TrimSpace(q.Get("from")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid query param: from")
				return
			}
			filter.From = &t
		}
		if v := strings.TrimSpace(q.Get("to")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid query param: to")
				return
			}
			filter.To = &t
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				httpx.WriteError(w, http.StatusBadRequest, "invalid query param: limit")
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByAnimal(r.Context(), a.ID, filter)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]measurementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMeasurementResponse(m))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// latestMeasurementsHandler devuelve la última medición por kind, para la
// tarjeta resumen del cliente.
// @Summary Últimas mediciones por tipo
// @Tags measurements
// @Security BearerAuth
// @Produce json
// @Success 200 {array} measurementResponse
// @Router /animals/{animalID}/measurements/latest [get]
func latestMeasurementsHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		items, err := svc.ListLatest(r.Context(), a.ID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]measurementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMeasurementResponse(m))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Detalle de medición
// @Tags measurements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} measurementResponse
// @Router /animals/{animalID}/measurements/{measurementID} [get]
func getMeasurementHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		m, err := svc.GetForAnimal(r.Context(), a.ID, chi.URLParam(r, "measurementID"))
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "measurement not found")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toMeasurementResponse(m))
	}
}

// @Summary Borrar medición
// @Tags measurements
// @Security BearerAuth
// @Success 204
// @Router /animals/{animalID}/measurements/{measurementID} [delete]
func deleteMeasurementHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), a.ID, chi.URLParam(r, "measurementID")); err != nil {
			if err == ErrNotFound {
				httpx.WriteError(w, http.StatusNotFound, "measurement not found")
			} else {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMeasurementResponse(m MeasurementLog) measurementResponse {
	return measurementResponse{
		ID:         m.ID,
		AnimalID:   m.AnimalID,
		Kind:       string(m.Kind),
		Value:      m.Value,
		Unit:       m.Unit,
		MeasuredAt: m.MeasuredAt,
		Notes:      m.Notes,
		RecordedAt: m.RecordedAt,
	}
}
