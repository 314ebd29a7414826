package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"infant-care-log/internal/domain/documents"
)

type DocumentsRepo struct {
	db *sql.DB
}

func NewDocumentsRepo(db *sql.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db}
}

func (r *DocumentsRepo) Create(ctx context.Context, d documents.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (collection, key, data, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		d.Collection,
		d.Key,
		[]byte(d.Data),
		d.CreatedAt,
	)
	return err
}

func (r *DocumentsRepo) Get(ctx context.Context, collection, key string) (documents.Document, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return documents.Document{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT collection, key, data, created_at
		FROM documents
		WHERE collection = $1 AND key = $2
	`, collection, key)

	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return documents.Document{}, ErrNotFound
		}
		return documents.Document{}, err
	}
	return d, nil
}

// List trae la colección por clave. El orden por hijo y los límites de la
// query se aplican después con documents.Apply.
func (r *DocumentsRepo) List(ctx context.Context, collection string) ([]documents.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT collection, key, data, created_at
		FROM documents
		WHERE collection = $1
		ORDER BY key
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]documents.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (documents.Document, error) {
	var d documents.Document
	var data []byte
	if err := s.Scan(&d.Collection, &d.Key, &data, &d.CreatedAt); err != nil {
		return documents.Document{}, err
	}
	d.Data = json.RawMessage(data)
	return d, nil
}
