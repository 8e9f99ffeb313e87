package feedings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("feeding record not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	FedAt    time.Time
	FoodType string
	PreySize string
	Quantity int
	Refused  bool
	Notes    string
}

func (s *Service) Create(ctx context.Context, animalID string, in CreateInput) (FeedingRecord, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return FeedingRecord{}, ErrInvalidInput
	}
	if in.FedAt.IsZero() {
		return FeedingRecord{}, ErrInvalidInput
	}

	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return FeedingRecord{}, ErrInvalidInput
	}

	f := FeedingRecord{
		ID:         uuid.NewString(),
		AnimalID:   animalID,
		FedAt:      in.FedAt,
		FoodType:   strings.TrimSpace(in.FoodType),
		PreySize:   PreySize(strings.TrimSpace(in.PreySize)),
		Quantity:   qty,
		Refused:    in.Refused,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: s.now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return FeedingRecord{}, err
	}
	return f, nil
}

// GetForAnimal devuelve el registro solo si pertenece a animalID; un id de
// otro animal responde not found.
func (s *Service) GetForAnimal(ctx context.Context, animalID, feedingID string) (FeedingRecord, error) {
	feedingID = strings.TrimSpace(feedingID)
	if feedingID == "" {
		return FeedingRecord{}, ErrNotFound
	}

	f, err := s.repo.GetByID(ctx, feedingID)
	if err != nil {
		return FeedingRecord{}, ErrNotFound
	}
	if f.AnimalID != animalID {
		return FeedingRecord{}, ErrNotFound
	}
	return f, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]FeedingRecord, error) {
	return s.repo.ListByAnimal(ctx, animalID, filter)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	FedAt    *time.Time
	FoodType *string
	PreySize *string
	Quantity *int
	Refused  *bool
	Notes    *string
}

func (s *Service) Update(ctx context.Context, animalID, feedingID string, in UpdateInput) (FeedingRecord, error) {
	current, err := s.GetForAnimal(ctx, animalID, feedingID)
	if err != nil {
		return FeedingRecord{}, err
	}

	if in.FedAt != nil {
		if in.FedAt.IsZero() {
			return FeedingRecord{}, ErrInvalidInput
		}
		current.FedAt = *in.FedAt
	}
	if in.FoodType != nil {
		current.FoodType = strings.TrimSpace(*in.FoodType)
	}
	if in.PreySize != nil {
		current.PreySize = PreySize(strings.TrimSpace(*in.PreySize))
	}
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return FeedingRecord{}, ErrInvalidInput
		}
		current.Quantity = *in.Quantity
	}
	if in.Refused != nil {
		current.Refused = *in.Refused
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return FeedingRecord{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, animalID, feedingID string) error {
	if _, err := s.GetForAnimal(ctx, animalID, feedingID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, feedingID)
}

// DeleteByAnimal borra todos los registros del animal (cascade).
func (s *Service) DeleteByAnimal(ctx context.Context, animalID string) error {
	return s.repo.DeleteByAnimal(ctx, animalID)
}
