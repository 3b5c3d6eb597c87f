package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// HistoryRepo defines the collection-store operations for trip audit entries.
// History records are append-only: there is no update operation, and deletes
// only happen as part of a trip's cascade cleanup.
type HistoryRepo interface {
	// GetAll returns every history record ordered by change date ascending.
	GetAll(ctx context.Context) ([]domain.TripHistory, error)

	// Create inserts a new history record and returns it with its
	// store-assigned ID and change date populated.
	Create(ctx context.Context, h domain.TripHistory) (domain.TripHistory, error)

	// Delete removes a history record by ID. Deleting a record that does not
	// exist is not an error, so cascade cleanup is safe to retry.
	Delete(ctx context.Context, id string) error
}

// pgHistoryRepo is the Postgres implementation of HistoryRepo.
type pgHistoryRepo struct {
	db db
}

// NewHistoryRepo constructs a HistoryRepo backed by the provided db connection.
func NewHistoryRepo(db db) HistoryRepo {
	return &pgHistoryRepo{db: db}
}

const historyColumns = `id, trip_id, change_date, changed_fields, previous_values, new_values`

func (r *pgHistoryRepo) GetAll(ctx context.Context) ([]domain.TripHistory, error) {
	q := `SELECT ` + historyColumns + ` FROM trip_history ORDER BY change_date, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.GetAll: %w", err)
	}
	defer rows.Close()

	var records []domain.TripHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HistoryRepo.GetAll: scan: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.GetAll: rows: %w", err)
	}

	return records, nil
}

func (r *pgHistoryRepo) Create(ctx context.Context, h domain.TripHistory) (domain.TripHistory, error) {
	q := `
		INSERT INTO trip_history (trip_id, change_date, changed_fields, previous_values, new_values)
		VALUES (@trip_id, @change_date, @changed_fields, @previous_values, @new_values)
		RETURNING ` + historyColumns

	args := pgx.NamedArgs{
		"trip_id":         h.TripID,
		"change_date":     h.ChangeDate,
		"changed_fields":  h.ChangedFields,
		"previous_values": h.PreviousValues,
		"new_values":      h.NewValues,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanHistory(row)
	if err != nil {
		return domain.TripHistory{}, fmt.Errorf("repo.HistoryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgHistoryRepo) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		// A malformed ID matches nothing; treat as already deleted.
		return nil
	}

	_, err = r.db.Exec(ctx, `DELETE FROM trip_history WHERE id = @id`, pgx.NamedArgs{"id": key})
	if err != nil {
		return fmt.Errorf("repo.HistoryRepo.Delete: %w", err)
	}
	return nil
}

// scanHistory maps a single database row into a domain.TripHistory.
func scanHistory(s scanner) (domain.TripHistory, error) {
	var (
		h  domain.TripHistory
		id pgtype.UUID
	)

	err := s.Scan(&id, &h.TripID, &h.ChangeDate, &h.ChangedFields, &h.PreviousValues, &h.NewValues)
	if err != nil {
		return domain.TripHistory{}, err
	}

	h.ID = uuid.UUID(id.Bytes).String()
	return h, nil
}
