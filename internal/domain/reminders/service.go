package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reminder not found")
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
	AnimalID *string
	Title    string
	Notes    string
	DueAt    *time.Time
	Repeat   string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Reminder, error) {
	userID = strings.TrimSpace(userID)
	title := strings.TrimSpace(in.Title)
	if userID == "" || title == "" {
		return Reminder{}, ErrInvalidInput
	}

	repeat := Repeat(strings.TrimSpace(in.Repeat))
	if repeat == "" {
		repeat = RepeatNone
	}
	if !ValidRepeat(repeat) {
		return Reminder{}, ErrInvalidInput
	}
	// Repetir sin fecha base no tiene sentido.
	if repeat != RepeatNone && in.DueAt == nil {
		return Reminder{}, ErrInvalidInput
	}

	var animalID *string
	if in.AnimalID != nil {
		id := strings.TrimSpace(*in.AnimalID)
		if id == "" {
			return Reminder{}, ErrInvalidInput
		}
		animalID = &id
	}

	now := s.now()
	r := Reminder{
		ID:        uuid.NewString(),
		UserID:    userID,
		AnimalID:  animalID,
		Title:     title,
		Notes:     strings.TrimSpace(in.Notes),
		DueAt:     in.DueAt,
		Repeat:    repeat,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// GetOwned scopea por usuario: un reminder ajeno responde not found.
func (s *Service) GetOwned(ctx context.Context, reminderID, userID string) (Reminder, error) {
	reminderID = strings.TrimSpace(reminderID)
	if reminderID == "" {
		return Reminder{}, ErrNotFound
	}

	r, err := s.repo.GetByID(ctx, reminderID)
	if err != nil {
		return Reminder{}, ErrNotFound
	}
	if r.UserID != userID {
		return Reminder{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Reminder, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// OptionalTime distingue "no enviado" de "enviado como null" en un PATCH.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

type UpdateInput struct {
	Title  *string
	Notes  *string
	DueAt  OptionalTime
	Repeat *string
}

func (s *Service) Update(ctx context.Context, reminderID, userID string, in UpdateInput) (Reminder, error) {
	current, err := s.GetOwned(ctx, reminderID, userID)
	if err != nil {
		return Reminder{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Reminder{}, ErrInvalidInput
		}
		current.Title = title
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.DueAt.Set {
		current.DueAt = in.DueAt.Value
	}
	if in.Repeat != nil {
		repeat := Repeat(strings.TrimSpace(*in.Repeat))
		if !ValidRepeat(repeat) {
			return Reminder{}, ErrInvalidInput
		}
		current.Repeat = repeat
	}
	if current.Repeat != RepeatNone && current.DueAt == nil {
		return Reminder{}, ErrInvalidInput
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Reminder{}, err
	}
	return current, nil
}

// Complete marca el reminder como hecho. Si repite y tiene fecha, en vez de
// cerrarse corre DueAt al próximo período y queda abierto.
func (s *Service) Complete(ctx context.Context, reminderID, userID string) (Reminder, error) {
	current, err := s.GetOwned(ctx, reminderID, userID)
	if err != nil {
		return Reminder{}, err
	}

	now := s.now()

	if current.Repeat != RepeatNone && current.DueAt != nil {
		next := nextDue(*current.DueAt, current.Repeat, now)
		current.DueAt = &next
	} else {
		current.DoneAt = &now
	}
	current.UpdatedAt = now

	if err := s.repo.Update(ctx, current); err != nil {
		return Reminder{}, err
	}
	return current, nil
}

// nextDue avanza due por períodos hasta quedar después de now.
// Completar tarde no acumula vencimientos pasados.
func nextDue(due time.Time, repeat Repeat, now time.Time) time.Time {
	advance := func(t time.Time) time.Time {
		switch repeat {
		case RepeatDaily:
			return t.AddDate(0, 0, 1)
		case RepeatWeekly:
			return t.AddDate(0, 0, 7)
		case RepeatMonthly:
			return t.AddDate(0, 1, 0)
		default:
			return t
		}
	}

	next := advance(due)
	for !next.After(now) {
		next = advance(next)
	}
	return next
}

func (s *Service) Delete(ctx context.Context, reminderID, userID string) error {
	if _, err := s.GetOwned(ctx, reminderID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reminderID)
}

// ClearAnimal desvincula reminders de un animal borrado (cascade).
func (s *Service) ClearAnimal(ctx context.Context, animalID string) error {
	return s.repo.ClearAnimal(ctx, animalID)
}
