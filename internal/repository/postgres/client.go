package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

const clientColumns = `id, first_name, last_name, date_of_birth, gender, national_id, phone,
	email, address, emergency_contact_name, emergency_contact_relationship,
	emergency_contact_phone, created_by, version, created_at, updated_at`

const clientOrder = `ORDER BY last_name, first_name, id`

// fuzzyDistance is the smallest edit distance between the query and the
// equally long prefix of any searchable field.
const fuzzyDistance = `LEAST(
	levenshtein(lower(left(first_name, char_length($1::text))), lower($1::text)),
	levenshtein(lower(left(last_name, char_length($1::text))), lower($1::text)),
	levenshtein(lower(left(first_name || ' ' || last_name, char_length($1::text))), lower($1::text)),
	levenshtein(lower(left(coalesce(national_id, ''), char_length($1::text))), lower($1::text)),
	levenshtein(lower(left(coalesce(phone, ''), char_length($1::text))), lower($1::text)),
	levenshtein(lower(left(coalesce(email, ''), char_length($1::text))), lower($1::text)),
	levenshtein(lower(left(coalesce(address, ''), char_length($1::text))), lower($1::text))
)`

type clientRepository struct {
	BaseRepository
}

func NewClientRepository(base BaseRepository) repository.ClientRepository {
	return &clientRepository{base}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) (err error) {
	defer r.observe("client.create", time.Now(), &err)

	query := `
		INSERT INTO clients (
			id, first_name, last_name, date_of_birth, gender, national_id, phone,
			email, address, emergency_contact_name, emergency_contact_relationship,
			emergency_contact_phone, created_by, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now
	client.Version = 0

	_, err = r.db.ExecContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.DateOfBirth,
		client.Gender,
		client.NationalID,
		client.Phone,
		client.Email,
		client.Address,
		client.EmergencyContactName,
		client.EmergencyContactRelationship,
		client.EmergencyContactPhone,
		client.CreatedBy,
		client.Version,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Client, err error) {
	defer r.observe("client.get", time.Now(), &err)

	var client model.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	if err = r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", notFound(err))
	}
	return &client, nil
}

// Update writes every mutable column and bumps the version.
func (r *clientRepository) Update(ctx context.Context, client *model.Client) (err error) {
	defer r.observe("client.update", time.Now(), &err)

	query := `
		UPDATE clients SET
			first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			national_id = $5, phone = $6, email = $7, address = $8,
			emergency_contact_name = $9, emergency_contact_relationship = $10,
			emergency_contact_phone = $11, version = version + 1, updated_at = $12
		WHERE id = $13
		RETURNING version
	`

	client.UpdatedAt = time.Now().UTC()
	err = r.db.QueryRowxContext(ctx, query,
		client.FirstName,
		client.LastName,
		client.DateOfBirth,
		client.Gender,
		client.NationalID,
		client.Phone,
		client.Email,
		client.Address,
		client.EmergencyContactName,
		client.EmergencyContactRelationship,
		client.EmergencyContactPhone,
		client.UpdatedAt,
		client.ID,
	).Scan(&client.Version)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", notFound(err))
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("client.delete", time.Now(), &err)

	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return requireRow(res, "failed to delete client")
}

func (r *clientRepository) List(ctx context.Context, limit, offset int) (_ []*model.Client, err error) {
	defer r.observe("client.list", time.Now(), &err)

	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	return r.selectClients(ctx, "failed to list clients", query, limit, offset)
}

func (r *clientRepository) Count(ctx context.Context) (_ int, err error) {
	defer r.observe("client.count", time.Now(), &err)

	var n int
	if err = r.db.GetContext(ctx, &n, `SELECT count(*) FROM clients`); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return n, nil
}

func (r *clientRepository) SearchExactDigits(ctx context.Context, digits string, limit, offset int) (_ []*model.Client, err error) {
	defer r.observe("client.search_digits", time.Now(), &err)

	query := `
		SELECT ` + clientColumns + ` FROM clients
		WHERE phone = $1 OR national_id = $1
		` + clientOrder + `
		LIMIT $2 OFFSET $3
	`
	return r.selectClients(ctx, "failed to search clients by number", query, digits, limit, offset)
}

func (r *clientRepository) SearchNameTokens(ctx context.Context, first, second string, limit, offset int) (_ []*model.Client, err error) {
	defer r.observe("client.search_names", time.Now(), &err)

	query := `
		SELECT ` + clientColumns + ` FROM clients
		WHERE (strpos(first_name, $1) > 0 AND strpos(last_name, $2) > 0)
		   OR (strpos(first_name, $2) > 0 AND strpos(last_name, $1) > 0)
		` + clientOrder + `
		LIMIT $3 OFFSET $4
	`
	return r.selectClients(ctx, "failed to search clients by name", query, first, second, limit, offset)
}

func (r *clientRepository) SearchSubstring(ctx context.Context, q string, limit, offset int) (_ []*model.Client, err error) {
	defer r.observe("client.search_substring", time.Now(), &err)

	query := `
		SELECT ` + clientColumns + ` FROM clients
		WHERE strpos(first_name, $1) > 0
		   OR strpos(last_name, $1) > 0
		   OR strpos(coalesce(national_id, ''), $1) > 0
		   OR strpos(coalesce(phone, ''), $1) > 0
		   OR strpos(coalesce(email, ''), $1) > 0
		   OR strpos(coalesce(address, ''), $1) > 0
		` + clientOrder + `
		LIMIT $2 OFFSET $3
	`
	return r.selectClients(ctx, "failed to search clients by substring", query, q, limit, offset)
}

func (r *clientRepository) SearchFuzzy(ctx context.Context, q string, limit, offset int) (_ []*model.Client, err error) {
	defer r.observe("client.search_fuzzy", time.Now(), &err)

	query := `
		SELECT ` + clientColumns + ` FROM (
			SELECT ` + clientColumns + `, ` + fuzzyDistance + ` AS distance
			FROM clients
		) ranked
		WHERE distance <= 1
		ORDER BY distance, last_name, first_name, id
		LIMIT $2 OFFSET $3
	`
	return r.selectClients(ctx, "failed to fuzzy search clients", query, q, limit, offset)
}

func (r *clientRepository) selectClients(ctx context.Context, msg, query string, args ...interface{}) ([]*model.Client, error) {
	clients := []*model.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return clients, nil
}
