package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"petchat-ai/internal/domain/pets"
)

// PetsRepo persiste perfiles en la tabla pets.
// traits y favorite_things van como jsonb para no pelear con arrays de
// database/sql; el resto son columnas planas.
//
// CREATE TABLE pets (
//     id              text PRIMARY KEY,
//     owner_user_id   text NOT NULL,
//     name            text NOT NULL,
//     pet_type        text NOT NULL,
//     breed           text NOT NULL DEFAULT '',
//     age             int,
//     traits          jsonb NOT NULL DEFAULT '[]',
//     favorite_things jsonb NOT NULL DEFAULT '[]',
//     quirks          text NOT NULL DEFAULT '',
//     system_prompt   text NOT NULL,
//     created_at      timestamptz NOT NULL,
//     updated_at      timestamptz NOT NULL
// );
// CREATE INDEX pets_owner_idx ON pets (owner_user_id, created_at);
type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	traits, err := json.Marshal(p.Traits)
	if err != nil {
		return fmt.Errorf("marshal traits: %w", err)
	}
	favorites, err := json.Marshal(p.FavoriteThings)
	if err != nil {
		return fmt.Errorf("marshal favorite_things: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_user_id,
			name, pet_type, breed, age,
			traits, favorite_things, quirks,
			system_prompt,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		string(p.Type),
		p.Breed,
		toNullInt(p.Age),
		traits,
		favorites,
		p.Quirks,
		p.SystemPrompt,
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
			id, owner_user_id,
			name, pet_type, breed, age,
			traits, favorite_things, quirks,
			system_prompt,
			created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, pet_type, breed, age,
			traits, favorite_things, quirks,
			system_prompt,
			created_at, updated_at
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
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

func scanPet(scan func(dest ...any) error) (pets.Pet, error) {
	var (
		p         pets.Pet
		age       sql.NullInt64
		traits    []byte
		favorites []byte
	)

	if err := scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Type,
		&p.Breed,
		&age,
		&traits,
		&favorites,
		&p.Quirks,
		&p.SystemPrompt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if len(traits) > 0 {
		if err := json.Unmarshal(traits, &p.Traits); err != nil {
			return pets.Pet{}, fmt.Errorf("unmarshal traits: %w", err)
		}
	}
	if len(favorites) > 0 {
		if err := json.Unmarshal(favorites, &p.FavoriteThings); err != nil {
			return pets.Pet{}, fmt.Errorf("unmarshal favorite_things: %w", err)
		}
	}

	return p, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
