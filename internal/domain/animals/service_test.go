package animals

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Animal
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) GetByOwnerAndName(ctx context.Context, ownerUserID, name string) (Animal, error) {
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID && strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return Animal{}, errRepoNotFound
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsSexUnknown(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:    "Nagini",
		Species: "ball_python",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.Sex != SexUnknown {
		t.Fatalf("expected sex unknown, got %s", a.Sex)
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RejectsBadSex(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Nagini",
		Sex:  "yes",
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_DuplicateName_CaseInsensitive(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Nagini"}); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "NAGINI"})
	if err != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	// mismo nombre, otro dueño: permitido
	if _, err := svc.Create(context.Background(), "owner-2", CreateInput{Name: "Nagini"}); err != nil {
		t.Fatalf("expected other owner to reuse name, got %v", err)
	}
}

func TestService_GetOwned_OtherOwner_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Nagini"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// nunca 403: un animal ajeno no existe para el otro usuario
	if _, err := svc.GetOwned(context.Background(), a.ID, "owner-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), a.ID, "owner-1"); err != nil {
		t.Fatalf("expected owner to see animal, got %v", err)
	}
}

func TestService_UpdateProfile_PatchSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	hatch := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	a, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:      "Nagini",
		Species:   "ball_python",
		Morph:     "banana",
		HatchDate: &hatch,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	later := now.Add(time.Hour)
	svc.now = func() time.Time { return later }

	newName := "Medusa"
	updated, err := svc.UpdateProfile(context.Background(), a.ID, "owner-1", UpdateProfileInput{
		Name: &newName,
		// hatch_date enviado como null: limpia la fecha
		HatchDate: OptionalDate{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.Name != "Medusa" {
		t.Fatalf("expected renamed, got %q", updated.Name)
	}
	if updated.HatchDate != nil {
		t.Fatalf("expected hatch date cleared")
	}
	// campos no enviados quedan igual
	if updated.Morph != "banana" || updated.Species != "ball_python" {
		t.Fatalf("untouched fields changed: %#v", updated)
	}
	if updated.UpdatedAt != later {
		t.Fatalf("expected UpdatedAt bumped")
	}
}

func TestService_UpdateProfile_RenameToTakenName_Conflict(t *testing.T) {
	svc := NewService(newTestRepo())

	a, _ := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Nagini"})
	_, _ = svc.Create(context.Background(), "owner-1", CreateInput{Name: "Medusa"})

	name := "medusa"
	_, err := svc.UpdateProfile(context.Background(), a.ID, "owner-1", UpdateProfileInput{Name: &name})
	if err != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	// renombrar a sí mismo con otra capitalización no conflictúa
	self := "NAGINI"
	if _, err := svc.UpdateProfile(context.Background(), a.ID, "owner-1", UpdateProfileInput{Name: &self}); err != nil {
		t.Fatalf("expected self rename ok, got %v", err)
	}
}

func TestService_Delete_RunsCascades(t *testing.T) {
	repo := newTestRepo()

	var cascaded []string
	svc := NewService(repo,
		func(ctx context.Context, animalID string) error {
			cascaded = append(cascaded, "feedings:"+animalID)
			return nil
		},
		func(ctx context.Context, animalID string) error {
			cascaded = append(cascaded, "reminders:"+animalID)
			return nil
		},
	)

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Nagini"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(context.Background(), a.ID, "owner-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(cascaded) != 2 || cascaded[0] != "feedings:"+a.ID || cascaded[1] != "reminders:"+a.ID {
		t.Fatalf("expected both cascades in order, got %#v", cascaded)
	}
	if _, err := repo.GetByID(context.Background(), a.ID); err != errRepoNotFound {
		t.Fatalf("expected animal gone, got %v", err)
	}
}

func TestService_Delete_OtherOwner_NotFound_NoCascade(t *testing.T) {
	repo := newTestRepo()

	ran := false
	svc := NewService(repo, func(ctx context.Context, animalID string) error {
		ran = true
		return nil
	})

	a, _ := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Nagini"})

	if err := svc.Delete(context.Background(), a.ID, "owner-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ran {
		t.Fatalf("cascade must not run when delete is rejected")
	}
}
