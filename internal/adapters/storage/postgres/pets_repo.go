package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-api/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	tags, images, err := encodeLists(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, name, age, type, breed,
			adoption_status, tags, images,
			birth_date, adoption_datatime,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.Name,
		p.Age,
		p.Type,
		p.Breed,
		string(p.AdoptionStatus),
		tags,
		images,
		p.BirthDate,
		toNullTime(p.AdoptionDatatime),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, age, type, breed,
			adoption_status, tags, images,
			birth_date, adoption_datatime,
			created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, age, type, breed,
			adoption_status, tags, images,
			birth_date, adoption_datatime,
			created_at, updated_at
		FROM pets
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	tags, images, err := encodeLists(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			age = $3,
			type = $4,
			breed = $5,
			adoption_status = $6,
			tags = $7,
			images = $8,
			birth_date = $9,
			adoption_datatime = $10,
			updated_at = $11
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Age,
		p.Type,
		p.Breed,
		string(p.AdoptionStatus),
		tags,
		images,
		p.BirthDate,
		toNullTime(p.AdoptionDatatime),
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p           pets.Pet
		status      string
		tagsRaw     []byte
		imagesRaw   []byte
		adoptionsAt sql.NullTime
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Type,
		&p.Breed,
		&status,
		&tagsRaw,
		&imagesRaw,
		&p.BirthDate,
		&adoptionsAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.AdoptionStatus = pets.AdoptionStatus(status)

	if err := decodeList(tagsRaw, &p.Tags); err != nil {
		return pets.Pet{}, fmt.Errorf("decoding tags: %w", err)
	}
	if err := decodeList(imagesRaw, &p.Images); err != nil {
		return pets.Pet{}, fmt.Errorf("decoding images: %w", err)
	}

	if adoptionsAt.Valid {
		t := adoptionsAt.Time
		p.AdoptionDatatime = &t
	}

	return p, nil
}

// tags e images van como jsonb; con database/sql es lo más directo
// para listas ordenadas de strings.
func encodeLists(p pets.Pet) ([]byte, []byte, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	tagsRaw, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, err
	}
	imagesRaw, err := json.Marshal(images)
	if err != nil {
		return nil, nil, err
	}
	return tagsRaw, imagesRaw, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
