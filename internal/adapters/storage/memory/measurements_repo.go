package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"reptile-husbandry/internal/domain/measurements"
)

type measurementsRepo struct {
	mu   sync.RWMutex
	byID map[string]measurements.MeasurementLog
}

func NewMeasurementsRepo() measurements.Repository {
	return &measurementsRepo{
		byID: make(map[string]measurements.MeasurementLog),
	}
}

func (r *measurementsRepo) Create(ctx context.Context, m measurements.MeasurementLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("measurement id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("measurement already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *measurementsRepo) GetByID(ctx context.Context, id string) (measurements.MeasurementLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return measurements.MeasurementLog{}, ErrNotFound
	}
	return m, nil
}

func (r *measurementsRepo) ListByAnimal(ctx context.Context, animalID string, filter measurements.ListFilter) ([]measurements.MeasurementLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]measurements.MeasurementLog, 0)
	for _, m := range r.byID {
		if m.AnimalID != animalID {
			continue
		}
		if len(filter.Kinds) > 0 && !containsKind(filter.Kinds, m.Kind) {
			continue
		}
		if filter.From != nil && m.MeasuredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.MeasuredAt.After(*filter.To) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MeasuredAt.After(out[j].MeasuredAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *measurementsRepo) ListLatest(ctx context.Context, animalID string) ([]measurements.MeasurementLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := map[measurements.Kind]measurements.MeasurementLog{}
	for _, m := range r.byID {
		if m.AnimalID != animalID {
			continue
		}
		cur, ok := latest[m.Kind]
		if !ok || m.MeasuredAt.After(cur.MeasuredAt) {
			latest[m.Kind] = m
		}
	}

	out := make([]measurements.MeasurementLog, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}

	// orden estable por kind
	sort.Slice(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind
	})

	return out, nil
}

func (r *measurementsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *measurementsRepo) DeleteByAnimal(ctx context.Context, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.byID {
		if m.AnimalID == animalID {
			delete(r.byID, id)
		}
	}
	return nil
}

func containsKind(kinds []measurements.Kind, k measurements.Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}
