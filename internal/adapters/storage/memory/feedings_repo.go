package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"reptile-husbandry/internal/domain/feedings"
)

type feedingsRepo struct {
	mu   sync.RWMutex
	byID map[string]feedings.FeedingRecord
}

func NewFeedingsRepo() feedings.Repository {
	return &feedingsRepo{
		byID: make(map[string]feedings.FeedingRecord),
	}
}

func (r *feedingsRepo) Create(ctx context.Context, f feedings.FeedingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("feeding id required")
	}
	if _, exists := r.byID[f.ID]; exists {
		return errors.New("feeding already exists")
	}
	r.byID[f.ID] = f
	return nil
}

func (r *feedingsRepo) GetByID(ctx context.Context, id string) (feedings.FeedingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return feedings.FeedingRecord{}, ErrNotFound
	}
	return f, nil
}

func (r *feedingsRepo) ListByAnimal(ctx context.Context, animalID string, filter feedings.ListFilter) ([]feedings.FeedingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feedings.FeedingRecord, 0)
	for _, f := range r.byID {
		if f.AnimalID != animalID {
			continue
		}
		if filter.From != nil && f.FedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && f.FedAt.After(*filter.To) {
			continue
		}
		if filter.Refused != nil && f.Refused != *filter.Refused {
			continue
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FedAt.After(out[j].FedAt)
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

func (r *feedingsRepo) Update(ctx context.Context, f feedings.FeedingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[f.ID]; !exists {
		return ErrNotFound
	}
	r.byID[f.ID] = f
	return nil
}

func (r *feedingsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *feedingsRepo) DeleteByAnimal(ctx context.Context, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.byID {
		if f.AnimalID == animalID {
			delete(r.byID, id)
		}
	}
	return nil
}
