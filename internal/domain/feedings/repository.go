package feedings

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, f FeedingRecord) error
	GetByID(ctx context.Context, id string) (FeedingRecord, error)
	ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]FeedingRecord, error)
	Update(ctx context.Context, f FeedingRecord) error
	Delete(ctx context.Context, id string) error
	DeleteByAnimal(ctx context.Context, animalID string) error
}

type ListFilter struct {
	From    *time.Time
	To      *time.Time
	Refused *bool
	Limit   int
}
