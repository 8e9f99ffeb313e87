package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"reptile-husbandry/internal/domain/feedings"
)

type FeedingsRepo struct {
	db *sql.DB
}

func NewFeedingsRepo(db *sql.DB) *FeedingsRepo {
	return &FeedingsRepo{db: db}
}

func (r *FeedingsRepo) Create(ctx context.Context, f feedings.FeedingRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeding_records (
			id, animal_id,
			fed_at, food_type, prey_size, quantity, refused, notes,
			recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		f.ID,
		f.AnimalID,
		f.FedAt,
		f.FoodType,
		string(f.PreySize),
		f.Quantity,
		f.Refused,
		f.Notes,
		f.RecordedAt,
	)
	return err
}

func (r *FeedingsRepo) GetByID(ctx context.Context, id string) (feedings.FeedingRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return feedings.FeedingRecord{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, animal_id, fed_at, food_type, prey_size, quantity, refused, notes, recorded_at
		FROM feeding_records
		WHERE id = $1
	`, id)

	var f feedings.FeedingRecord
	var preySize string
	if err := row.Scan(
		&f.ID,
		&f.AnimalID,
		&f.FedAt,
		&f.FoodType,
		&preySize,
		&f.Quantity,
		&f.Refused,
		&f.Notes,
		&f.RecordedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return feedings.FeedingRecord{}, ErrNotFound
		}
		return feedings.FeedingRecord{}, err
	}

	f.PreySize = feedings.PreySize(preySize)
	return f, nil
}

func (r *FeedingsRepo) ListByAnimal(ctx context.Context, animalID string, filter feedings.ListFilter) ([]feedings.FeedingRecord, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, animal_id, fed_at, food_type, prey_size, quantity, refused, notes, recorded_at
		FROM feeding_records
		WHERE animal_id = $1
	`)

	args := []any{animalID}
	argN := 2

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND fed_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND fed_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}
	if filter.Refused != nil {
		sb.WriteString(fmt.Sprintf(" AND refused = $%d", argN))
		args = append(args, *filter.Refused)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY fed_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedings.FeedingRecord, 0)
	for rows.Next() {
		var f feedings.FeedingRecord
		var preySize string
		if err := rows.Scan(
			&f.ID,
			&f.AnimalID,
			&f.FedAt,
			&f.FoodType,
			&preySize,
			&f.Quantity,
			&f.Refused,
			&f.Notes,
			&f.RecordedAt,
		); err != nil {
			return nil, err
		}
		f.PreySize = feedings.PreySize(preySize)
		out = append(out, f)
	}

	return out, rows.Err()
}

func (r *FeedingsRepo) Update(ctx context.Context, f feedings.FeedingRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feeding_records
		SET
			fed_at = $2,
			food_type = $3,
			prey_size = $4,
			quantity = $5,
			refused = $6,
			notes = $7
		WHERE id = $1
	`,
		f.ID,
		f.FedAt,
		f.FoodType,
		string(f.PreySize),
		f.Quantity,
		f.Refused,
		f.Notes,
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

func (r *FeedingsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM feeding_records
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

func (r *FeedingsRepo) DeleteByAnimal(ctx context.Context, animalID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM feeding_records
		WHERE animal_id = $1
	`, animalID)
	return err
}
