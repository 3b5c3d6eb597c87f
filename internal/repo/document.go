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

// DocumentRepo defines the collection-store operations for trip attachments.
// Only the metadata lives here; file contents are handled by the filestore
// provider and referenced by the opaque URI field.
type DocumentRepo interface {
	// GetAll returns every document record ordered by upload date ascending.
	GetAll(ctx context.Context) ([]domain.Document, error)

	// GetByID retrieves a single document record.
	// Returns domain.ErrNotFound if no document with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Document, error)

	// Create inserts a new document record and returns it with its
	// store-assigned ID populated.
	Create(ctx context.Context, d domain.Document) (domain.Document, error)

	// Delete removes a document record by ID. Deleting a record that does not
	// exist is not an error, so cascade cleanup is safe to retry.
	Delete(ctx context.Context, id string) error
}

// pgDocumentRepo is the Postgres implementation of DocumentRepo.
type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

const documentColumns = `id, trip_id, name, type, uri, upload_date, notes`

func (r *pgDocumentRepo) GetAll(ctx context.Context) ([]domain.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents ORDER BY upload_date, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.GetAll: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DocumentRepo.GetAll: scan: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.GetAll: rows: %w", err)
	}

	return docs, nil
}

func (r *pgDocumentRepo) GetByID(ctx context.Context, id string) (domain.Document, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", domain.ErrNotFound)
	}

	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": key})
	d, err := scanDocument(row)
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", err)
	}
	return d, nil
}

func (r *pgDocumentRepo) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	q := `
		INSERT INTO documents (trip_id, name, type, uri, upload_date, notes)
		VALUES (@trip_id, @name, @type, @uri, @upload_date, @notes)
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{
		"trip_id":     d.TripID,
		"name":        d.Name,
		"type":        string(d.Type),
		"uri":         d.URI,
		"upload_date": d.UploadDate,
		"notes":       d.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDocument(row)
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDocumentRepo) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		// A malformed ID matches nothing; treat as already deleted.
		return nil
	}

	_, err = r.db.Exec(ctx, `DELETE FROM documents WHERE id = @id`, pgx.NamedArgs{"id": key})
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", err)
	}
	return nil
}

// scanDocument maps a single database row into a domain.Document.
func scanDocument(s scanner) (domain.Document, error) {
	var (
		d       pgtype.UUID
		doc     domain.Document
		docType string
	)

	err := s.Scan(&d, &doc.TripID, &doc.Name, &docType, &doc.URI, &doc.UploadDate, &doc.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}

	doc.ID = uuid.UUID(d.Bytes).String()
	doc.Type = domain.DocumentType(docType)
	return doc, nil
}
