package feedings

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]FeedingRecord
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]FeedingRecord{}}
}

func (r *testRepo) Create(ctx context.Context, f FeedingRecord) error {
	if f.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[f.ID] = f
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (FeedingRecord, error) {
	f, ok := r.byID[id]
	if !ok {
		return FeedingRecord{}, errRepoNotFound
	}
	return f, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]FeedingRecord, error) {
	out := make([]FeedingRecord, 0)
	for _, f := range r.byID {
		if f.AnimalID != animalID {
			continue
		}
		if filter.Refused != nil && f.Refused != *filter.Refused {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, f FeedingRecord) error {
	if _, ok := r.byID[f.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[f.ID] = f
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) DeleteByAnimal(ctx context.Context, animalID string) error {
	for id, f := range r.byID {
		if f.AnimalID == animalID {
			delete(r.byID, id)
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsQuantityToOne(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	f, err := svc.Create(context.Background(), "animal-1", CreateInput{
		FedAt:    now.Add(-time.Hour),
		FoodType: "mouse",
		PreySize: "adult",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if f.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", f.Quantity)
	}
	if f.RecordedAt != now {
		t.Fatalf("expected RecordedAt now, got %v", f.RecordedAt)
	}
}

func TestService_Create_RejectsZeroFedAt(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "animal-1", CreateInput{FoodType: "mouse"})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_RejectsNegativeQuantity(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "animal-1", CreateInput{
		FedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Quantity: -2,
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_GetForAnimal_WrongAnimal_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	f, err := svc.Create(context.Background(), "animal-1", CreateInput{
		FedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// un id real pero de otro animal no existe bajo este animal
	if _, err := svc.GetForAnimal(context.Background(), "animal-2", f.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetForAnimal(context.Background(), "animal-1", f.ID); err != nil {
		t.Fatalf("expected record under its own animal, got %v", err)
	}
}

func TestService_Update_Patch(t *testing.T) {
	svc := NewService(newTestRepo())

	f, err := svc.Create(context.Background(), "animal-1", CreateInput{
		FedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		FoodType: "mouse",
		Quantity: 2,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	refused := true
	updated, err := svc.Update(context.Background(), "animal-1", f.ID, UpdateInput{Refused: &refused})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.Refused {
		t.Fatalf("expected refused set")
	}
	if updated.FoodType != "mouse" || updated.Quantity != 2 {
		t.Fatalf("untouched fields changed: %#v", updated)
	}

	bad := 0
	if _, err := svc.Update(context.Background(), "animal-1", f.ID, UpdateInput{Quantity: &bad}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for quantity 0, got %v", err)
	}
}

func TestService_DeleteByAnimal_RemovesAll(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	fedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	_, _ = svc.Create(context.Background(), "animal-1", CreateInput{FedAt: fedAt})
	_, _ = svc.Create(context.Background(), "animal-1", CreateInput{FedAt: fedAt.Add(time.Hour)})
	keep, _ := svc.Create(context.Background(), "animal-2", CreateInput{FedAt: fedAt})

	if err := svc.DeleteByAnimal(context.Background(), "animal-1"); err != nil {
		t.Fatalf("DeleteByAnimal error: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected only the other animal's record, got %d", len(repo.byID))
	}
	if _, ok := repo.byID[keep.ID]; !ok {
		t.Fatalf("expected animal-2 record to survive")
	}
}
