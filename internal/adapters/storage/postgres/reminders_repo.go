package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"reptile-husbandry/internal/domain/reminders"
)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (
			id, user_id, animal_id,
			title, notes, due_at, repeat, done_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rem.ID,
		rem.UserID,
		toNullString(rem.AnimalID),
		rem.Title,
		rem.Notes,
		toNullTime(rem.DueAt),
		string(rem.Repeat),
		toNullTime(rem.DoneAt),
		rem.CreatedAt,
		rem.UpdatedAt,
	)
	return err
}

func (r *RemindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET
			animal_id = $2,
			title = $3,
			notes = $4,
			due_at = $5,
			repeat = $6,
			done_at = $7,
			updated_at = $8
		WHERE id = $1
	`,
		rem.ID,
		toNullString(rem.AnimalID),
		rem.Title,
		rem.Notes,
		toNullTime(rem.DueAt),
		string(rem.Repeat),
		toNullTime(rem.DoneAt),
		rem.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reminders.Reminder{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, animal_id, title, notes, due_at, repeat, done_at, created_at, updated_at
		FROM reminders
		WHERE id = $1
	`, id)

	var rem reminders.Reminder
	var animalID sql.NullString
	var dueAt, doneAt sql.NullTime
	var repeat string

	if err := row.Scan(
		&rem.ID,
		&rem.UserID,
		&animalID,
		&rem.Title,
		&rem.Notes,
		&dueAt,
		&repeat,
		&doneAt,
		&rem.CreatedAt,
		&rem.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return reminders.Reminder{}, ErrNotFound
		}
		return reminders.Reminder{}, err
	}

	rem.AnimalID = fromNullString(animalID)
	rem.DueAt = fromNullTime(dueAt)
	rem.DoneAt = fromNullTime(doneAt)
	rem.Repeat = reminders.Repeat(repeat)

	return rem, nil
}

func (r *RemindersRepo) ListByUser(ctx context.Context, userID string, filter reminders.ListFilter) ([]reminders.Reminder, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, user_id, animal_id, title, notes, due_at, repeat, done_at, created_at, updated_at
		FROM reminders
		WHERE user_id = $1
	`)

	args := []any{userID}
	argN := 2

	if !filter.IncludeDone {
		sb.WriteString(" AND done_at IS NULL")
	}
	if filter.AnimalID != "" {
		sb.WriteString(fmt.Sprintf(" AND animal_id = $%d", argN))
		args = append(args, filter.AnimalID)
		argN++
	}
	if filter.DueBefore != nil {
		sb.WriteString(fmt.Sprintf(" AND due_at < $%d", argN))
		args = append(args, *filter.DueBefore)
		argN++
	}

	// con fecha primero (asc), sin fecha al final por created_at
	sb.WriteString(" ORDER BY due_at ASC NULLS LAST, created_at ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		var rem reminders.Reminder
		var animalID sql.NullString
		var dueAt, doneAt sql.NullTime
		var repeat string

		if err := rows.Scan(
			&rem.ID,
			&rem.UserID,
			&animalID,
			&rem.Title,
			&rem.Notes,
			&dueAt,
			&repeat,
			&doneAt,
			&rem.CreatedAt,
			&rem.UpdatedAt,
		); err != nil {
			return nil, err
		}

		rem.AnimalID = fromNullString(animalID)
		rem.DueAt = fromNullTime(dueAt)
		rem.DoneAt = fromNullTime(doneAt)
		rem.Repeat = reminders.Repeat(repeat)

		out = append(out, rem)
	}

	return out, rows.Err()
}

func (r *RemindersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM reminders
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RemindersRepo) ClearAnimal(ctx context.Context, animalID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET animal_id = NULL
		WHERE animal_id = $1
	`, animalID)
	return err
}
