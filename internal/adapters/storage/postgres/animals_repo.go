package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"reptile-husbandry/internal/domain/animals"

	"github.com/jackc/pgx/v5/pgconn"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, owner_user_id,
	name, species, morph, sex,
	hatch_date, acquired_at, notes,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, owner_user_id,
			name, species, morph, sex,
			hatch_date, acquired_at, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		a.ID,
		a.OwnerUserID,
		a.Name,
		a.Species,
		a.Morph,
		string(a.Sex),
		toNullTime(a.HatchDate),
		toNullTime(a.AcquiredAt),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return animals.ErrNameTaken
		}
		return err
	}
	return nil
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			species = $3,
			morph = $4,
			sex = $5,
			hatch_date = $6,
			acquired_at = $7,
			notes = $8,
			updated_at = $9
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.Species,
		a.Morph,
		string(a.Sex),
		toNullTime(a.HatchDate),
		toNullTime(a.AcquiredAt),
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return animals.ErrNameTaken
		}
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	return scanAnimal(row.Scan)
}

func (r *AnimalsRepo) GetByOwnerAndName(ctx context.Context, ownerUserID, name string) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE owner_user_id = $1 AND lower(name) = lower($2)
	`, ownerUserID, strings.TrimSpace(name))

	return scanAnimal(row.Scan)
}

func (r *AnimalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM animals
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

func scanAnimal(scan func(dest ...any) error) (animals.Animal, error) {
	var a animals.Animal
	var sex string
	var hatch, acquired sql.NullTime

	if err := scan(
		&a.ID,
		&a.OwnerUserID,
		&a.Name,
		&a.Species,
		&a.Morph,
		&sex,
		&hatch,
		&acquired,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, ErrNotFound
		}
		return animals.Animal{}, err
	}

	a.Sex = animals.Sex(sex)
	// hatch_date/acquired_at son DATE; pgx los mapea a midnight UTC
	a.HatchDate = fromNullTime(hatch)
	a.AcquiredAt = fromNullTime(acquired)

	return a, nil
}
