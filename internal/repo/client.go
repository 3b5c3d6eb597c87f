package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// ClientRepo defines the collection-store operations for Clients.
// The store layer depends on this interface, not the concrete Postgres
// implementation, which allows it to be unit-tested with a mock.
type ClientRepo interface {
	// GetAll returns every client ordered by name.
	GetAll(ctx context.Context) ([]domain.Client, error)

	// GetByID retrieves a single client.
	// Returns domain.ErrNotFound if no client with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Client, error)

	// Create inserts a new client and returns the persisted record with its
	// store-assigned ID populated. The ID on the input is ignored.
	Create(ctx context.Context, c domain.Client) (domain.Client, error)

	// Update overwrites all mutable fields of the client with the given ID and
	// returns the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, id string, c domain.Client) (domain.Client, error)

	// Delete removes a client by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgClientRepo is the Postgres implementation of ClientRepo.
type pgClientRepo struct {
	db db
}

// NewClientRepo constructs a ClientRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewClientRepo(db db) ClientRepo {
	return &pgClientRepo{db: db}
}

const clientColumns = `id, name, tax_id, contact_person, phone, email, address, notes`

func (r *pgClientRepo) GetAll(ctx context.Context) ([]domain.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients ORDER BY name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ClientRepo.GetAll: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ClientRepo.GetAll: scan: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ClientRepo.GetAll: rows: %w", err)
	}

	return clients, nil
}

func (r *pgClientRepo) GetByID(ctx context.Context, id string) (domain.Client, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.GetByID: %w", domain.ErrNotFound)
	}

	q := `SELECT ` + clientColumns + ` FROM clients WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": key})
	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.GetByID: %w", err)
	}
	return c, nil
}

func (r *pgClientRepo) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	q := `
		INSERT INTO clients (name, tax_id, contact_person, phone, email, address, notes)
		VALUES (@name, @tax_id, @contact_person, @phone, @email, @address, @notes)
		RETURNING ` + clientColumns

	args := pgx.NamedArgs{
		"name":           c.Name,
		"tax_id":         c.TaxID,
		"contact_person": c.ContactPerson,
		"phone":          c.Phone,
		"email":          c.Email,
		"address":        c.Address,
		"notes":          c.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) Update(ctx context.Context, id string, c domain.Client) (domain.Client, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Update: %w", domain.ErrNotFound)
	}

	q := `
		UPDATE clients
		SET name           = @name,
		    tax_id         = @tax_id,
		    contact_person = @contact_person,
		    phone          = @phone,
		    email          = @email,
		    address        = @address,
		    notes          = @notes
		WHERE id = @id
		RETURNING ` + clientColumns

	args := pgx.NamedArgs{
		"id":             key,
		"name":           c.Name,
		"tax_id":         c.TaxID,
		"contact_person": c.ContactPerson,
		"phone":          c.Phone,
		"email":          c.Email,
		"address":        c.Address,
		"notes":          c.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", domain.ErrNotFound)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = @id`, pgx.NamedArgs{"id": key})
	if err != nil {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// parseID converts a string record ID into a uuid.UUID for query parameters.
// A malformed ID can never match a row, so callers map the error to ErrNotFound
// rather than sending the bad value to Postgres and failing the whole query.
func parseID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// scanClient maps a single database row into a domain.Client.
func scanClient(s scanner) (domain.Client, error) {
	var (
		c  domain.Client
		id pgtype.UUID
	)

	err := s.Scan(&id, &c.Name, &c.TaxID, &c.ContactPerson, &c.Phone, &c.Email, &c.Address, &c.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, err
	}

	c.ID = uuid.UUID(id.Bytes).String()
	return c, nil
}
