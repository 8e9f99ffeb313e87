package reminders

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r Reminder) error
	Update(ctx context.Context, r Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Reminder, error)
	Delete(ctx context.Context, id string) error
	// ClearAnimal desvincula los reminders del animal (animal borrado).
	ClearAnimal(ctx context.Context, animalID string) error
}

type ListFilter struct {
	IncludeDone bool
	AnimalID    string
	DueBefore   *time.Time
}
