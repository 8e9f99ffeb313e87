package measurements

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("measurement not found")
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
	Kind       string
	Value      float64
	Unit       string
	MeasuredAt time.Time
	Notes      string
}

func (s *Service) Create(ctx context.Context, animalID string, in CreateInput) (MeasurementLog, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return MeasurementLog{}, ErrInvalidInput
	}

	kind := Kind(strings.TrimSpace(in.Kind))
	if !ValidKind(kind) {
		return MeasurementLog{}, ErrInvalidInput
	}
	if in.MeasuredAt.IsZero() {
		return MeasurementLog{}, ErrInvalidInput
	}

	// Peso y largo no pueden ser <= 0; temperatura sí puede.
	if (kind == KindWeight || kind == KindLength) && in.Value <= 0 {
		return MeasurementLog{}, ErrInvalidInput
	}
	if kind == KindHumidity && (in.Value < 0 || in.Value > 100) {
		return MeasurementLog{}, ErrInvalidInput
	}

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultUnit(kind)
	}

	m := MeasurementLog{
		ID:         uuid.NewString(),
		AnimalID:   animalID,
		Kind:       kind,
		Value:      in.Value,
		Unit:       unit,
		MeasuredAt: in.MeasuredAt,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return MeasurementLog{}, err
	}
	return m, nil
}

// GetForAnimal scopea por animal: un id de otro animal responde not found.
func (s *Service) GetForAnimal(ctx context.Context, animalID, measurementID string) (MeasurementLog, error) {
	measurementID = strings.TrimSpace(measurementID)
	if measurementID == "" {
		return MeasurementLog{}, ErrNotFound
	}

	m, err := s.repo.GetByID(ctx, measurementID)
	if err != nil {
		return MeasurementLog{}, ErrNotFound
	}
	if m.AnimalID != animalID {
		return MeasurementLog{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]MeasurementLog, error) {
	return s.repo.ListByAnimal(ctx, animalID, filter)
}

// ListLatest devuelve la última medición por kind (para el resumen del animal).
func (s *Service) ListLatest(ctx context.Context, animalID string) ([]MeasurementLog, error) {
	return s.repo.ListLatest(ctx, animalID)
}

func (s *Service) Delete(ctx context.Context, animalID, measurementID string) error {
	if _, err := s.GetForAnimal(ctx, animalID, measurementID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, measurementID)
}

// DeleteByAnimal borra todas las mediciones del animal (cascade).
func (s *Service) DeleteByAnimal(ctx context.Context, animalID string) error {
	return s.repo.DeleteByAnimal(ctx, animalID)
}
