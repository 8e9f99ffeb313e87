package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"reptile-husbandry/internal/domain/measurements"
)

type MeasurementsRepo struct {
	db *sql.DB
}

func NewMeasurementsRepo(db *sql.DB) *MeasurementsRepo {
	return &MeasurementsRepo{db: db}
}

func (r *MeasurementsRepo) Create(ctx context.Context, m measurements.MeasurementLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO measurement_logs (
			id, animal_id,
			kind, value, unit, measured_at, notes,
			recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.ID,
		m.AnimalID,
		string(m.Kind),
		m.Value,
		m.Unit,
		m.MeasuredAt,
		m.Notes,
		m.RecordedAt,
	)
	return err
}

func (r *MeasurementsRepo) GetByID(ctx context.Context, id string) (measurements.MeasurementLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return measurements.MeasurementLog{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, animal_id, kind, value, unit, measured_at, notes, recorded_at
		FROM measurement_logs
		WHERE id = $1
	`, id)

	var m measurements.MeasurementLog
	var kind string
	if err := row.Scan(
		&m.ID,
		&m.AnimalID,
		&kind,
		&m.Value,
		&m.Unit,
		&m.MeasuredAt,
		&m.Notes,
		&m.RecordedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return measurements.MeasurementLog{}, ErrNotFound
		}
		return measurements.MeasurementLog{}, err
	}

	m.Kind = measurements.Kind(kind)
	return m, nil
}

func (r *MeasurementsRepo) ListByAnimal(ctx context.Context, animalID string, filter measurements.ListFilter) ([]measurements.MeasurementLog, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, animal_id, kind, value, unit, measured_at, notes, recorded_at
		FROM measurement_logs
		WHERE animal_id = $1
	`)

	args := []any{animalID}
	argN := 2

	if len(filter.Kinds) > 0 {
		placeholders := make([]string, 0, len(filter.Kinds))
		for _, k := range filter.Kinds {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(k))
			argN++
		}
		sb.WriteString(" AND kind IN (" + strings.Join(placeholders, ",") + ")")
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND measured_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND measured_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY measured_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMeasurements(rows)
}

func (r *MeasurementsRepo) ListLatest(ctx context.Context, animalID string) ([]measurements.MeasurementLog, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (kind)
			id, animal_id, kind, value, unit, measured_at, notes, recorded_at
		FROM measurement_logs
		WHERE animal_id = $1
		ORDER BY kind, measured_at DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMeasurements(rows)
}

func (r *MeasurementsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM measurement_logs
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

func (r *MeasurementsRepo) DeleteByAnimal(ctx context.Context, animalID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM measurement_logs
		WHERE animal_id = $1
	`, animalID)
	return err
}

func scanMeasurements(rows *sql.Rows) ([]measurements.MeasurementLog, error) {
	out := make([]measurements.MeasurementLog, 0)
	for rows.Next() {
		var m measurements.MeasurementLog
		var kind string
		if err := rows.Scan(
			&m.ID,
			&m.AnimalID,
			&kind,
			&m.Value,
			&m.Unit,
			&m.MeasuredAt,
			&m.Notes,
			&m.RecordedAt,
		); err != nil {
			return nil, err
		}
		m.Kind = measurements.Kind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}
