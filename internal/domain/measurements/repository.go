package measurements

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m MeasurementLog) error
	GetByID(ctx context.Context, id string) (MeasurementLog, error)
	ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]MeasurementLog, error)
	// ListLatest devuelve la medición más reciente de cada kind del animal.
	ListLatest(ctx context.Context, animalID string) ([]MeasurementLog, error)
	Delete(ctx context.Context, id string) error
	DeleteByAnimal(ctx context.Context, animalID string) error
}

type ListFilter struct {
	Kinds []Kind
	From  *time.Time
	To    *time.Time
	Limit int
}
