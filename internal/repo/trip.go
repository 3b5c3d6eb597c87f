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

// TripRepo defines the collection-store operations for Trips.
type TripRepo interface {
	// GetAll returns every trip ordered by date ascending, oldest first.
	GetAll(ctx context.Context) ([]domain.Trip, error)

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// Create inserts a new trip and returns the persisted record with its
	// store-assigned ID populated. The ID on the input is ignored.
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// Update overwrites all mutable fields of the trip with the given ID and
	// returns the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, id string, t domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, to_char(date, 'YYYY-MM-DD'), client_id, start_location, end_location,
	cargo, driver, vehicle, status, income, expenses, notes`

func (r *pgTripRepo) GetAll(ctx context.Context) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips ORDER BY date, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.GetAll: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.GetAll: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.GetAll: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}

	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": key})
	t, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO trips (date, client_id, start_location, end_location,
			cargo, driver, vehicle, status, income, expenses, notes)
		VALUES (@date::date, @client_id, @start_location, @end_location,
			@cargo, @driver, @vehicle, @status, @income, @expenses, @notes)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(t))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Update(ctx context.Context, id string, t domain.Trip) (domain.Trip, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}

	q := `
		UPDATE trips
		SET date           = @date::date,
		    client_id      = @client_id,
		    start_location = @start_location,
		    end_location   = @end_location,
		    cargo          = @cargo,
		    driver         = @driver,
		    vehicle        = @vehicle,
		    status         = @status,
		    income         = @income,
		    expenses       = @expenses,
		    notes          = @notes
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(t)
	args["id"] = key

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": key})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"date":           t.Date,
		"client_id":      t.ClientID,
		"start_location": t.StartLocation,
		"end_location":   t.EndLocation,
		"cargo":          t.Cargo,
		"driver":         t.Driver,
		"vehicle":        t.Vehicle,
		"status":         string(t.Status),
		"income":         t.Income,
		"expenses":       t.Expenses,
		"notes":          t.Notes,
	}
}

// scanTrip maps a single database row into a domain.Trip.
// The date column is formatted to "YYYY-MM-DD" in SQL, so it scans as a string.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t      domain.Trip
		id     pgtype.UUID
		status string
	)

	err := s.Scan(&id, &t.Date, &t.ClientID, &t.StartLocation, &t.EndLocation,
		&t.Cargo, &t.Driver, &t.Vehicle, &status, &t.Income, &t.Expenses, &t.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes).String()
	t.Status = domain.TripStatus(status)
	return t, nil
}
