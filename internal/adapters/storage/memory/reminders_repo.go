package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"reptile-husbandry/internal/domain/reminders"
)

type remindersRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewRemindersRepo() reminders.Repository {
	return &remindersRepo{
		byID: make(map[string]reminders.Reminder),
	}
}

func (r *remindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rem.ID) == "" {
		return errors.New("reminder id required")
	}
	if _, exists := r.byID[rem.ID]; exists {
		return errors.New("reminder already exists")
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *remindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rem.ID]; !exists {
		return ErrNotFound
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *remindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, ErrNotFound
	}
	return rem, nil
}

func (r *remindersRepo) ListByUser(ctx context.Context, userID string, filter reminders.ListFilter) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if rem.UserID != userID {
			continue
		}
		if !filter.IncludeDone && rem.Done() {
			continue
		}
		if filter.AnimalID != "" {
			if rem.AnimalID == nil || *rem.AnimalID != filter.AnimalID {
				continue
			}
		}
		if filter.DueBefore != nil {
			if rem.DueAt == nil || !rem.DueAt.Before(*filter.DueBefore) {
				continue
			}
		}
		out = append(out, rem)
	}

	// Con fecha primero (asc); los sin fecha al final por created_at
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DueAt != nil && b.DueAt != nil:
			return a.DueAt.Before(*b.DueAt)
		case a.DueAt != nil:
			return true
		case b.DueAt != nil:
			return false
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return out, nil
}

func (r *remindersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *remindersRepo) ClearAnimal(ctx context.Context, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rem := range r.byID {
		if rem.AnimalID != nil && *rem.AnimalID == animalID {
			rem.AnimalID = nil
			r.byID[id] = rem
		}
	}
	return nil
}
