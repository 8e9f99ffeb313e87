package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
	ErrNameTaken    = errors.New("animal name already in use")
)

// Cascade borra/desvincula registros hijos cuando se elimina un animal.
// En Postgres los FK también cascadean; esto mantiene el mismo
// comportamiento con los repos in-memory.
type Cascade func(ctx context.Context, animalID string) error

type Service struct {
	repo     Repository
	cascades []Cascade
	now      func() time.Time
}

func NewService(repo Repository, cascades ...Cascade) *Service {
	return &Service{
		repo:     repo,
		cascades: cascades,
		now:      time.Now,
	}
}

type CreateInput struct {
	Name       string
	Species    string
	Morph      string
	Sex        string
	HatchDate  *time.Time
	AcquiredAt *time.Time
	Notes      string
}

func validSex(s string) bool {
	switch Sex(s) {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	name := strings.TrimSpace(in.Name)

	if ownerUserID == "" || name == "" {
		return Animal{}, ErrInvalidInput
	}

	sex := strings.TrimSpace(in.Sex)
	if sex == "" {
		sex = string(SexUnknown)
	}
	if !validSex(sex) {
		return Animal{}, ErrInvalidInput
	}

	// Nombres únicos por dueño (case-insensitive). El índice único en
	// Postgres es el backstop.
	if _, err := s.repo.GetByOwnerAndName(ctx, ownerUserID, name); err == nil {
		return Animal{}, ErrNameTaken
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Species:     strings.TrimSpace(in.Species),
		Morph:       strings.TrimSpace(in.Morph),
		Sex:         Sex(sex),
		HatchDate:   in.HatchDate,
		AcquiredAt:  in.AcquiredAt,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// OptionalDate distingue "no enviado" de "enviado como null" en un PATCH.
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string
	Species *string
	Morph   *string
	Sex     *string
	Notes   *string

	HatchDate  OptionalDate
	AcquiredAt OptionalDate
}

func (s *Service) UpdateProfile(ctx context.Context, animalID, userID string, in UpdateProfileInput) (Animal, error) {
	current, err := s.GetOwned(ctx, animalID, userID)
	if err != nil {
		return Animal{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Animal{}, ErrInvalidInput
		}
		if !strings.EqualFold(name, current.Name) {
			if _, err := s.repo.GetByOwnerAndName(ctx, userID, name); err == nil {
				return Animal{}, ErrNameTaken
			}
		}
		current.Name = name
	}
	if in.Species != nil {
		current.Species = strings.TrimSpace(*in.Species)
	}
	if in.Morph != nil {
		current.Morph = strings.TrimSpace(*in.Morph)
	}
	if in.Sex != nil {
		sex := strings.TrimSpace(*in.Sex)
		if !validSex(sex) {
			return Animal{}, ErrInvalidInput
		}
		current.Sex = Sex(sex)
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.HatchDate.Set {
		current.HatchDate = in.HatchDate.Value
	}
	if in.AcquiredAt.Set {
		current.AcquiredAt = in.AcquiredAt.Value
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Animal{}, err
	}
	return current, nil
}

// Delete elimina el animal y cascadea feedings/measurements; los reminders
// vinculados quedan sin animal, no se borran.
func (s *Service) Delete(ctx context.Context, animalID, userID string) error {
	if _, err := s.GetOwned(ctx, animalID, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, animalID); err != nil {
		return err
	}

	for _, cascade := range s.cascades {
		if err := cascade(ctx, animalID); err != nil {
			return err
		}
	}
	return nil
}
