package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound reports a missing document.
var ErrNotFound = errors.New("not found")

// Document is one persisted record, keyed by owner and collection path the
// way the frontend's document database was
// (e.g. "journal_entries", "auri_chat").
type Document struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Collection string          `json:"collection"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Store is the save/query persistence collaborator. The in-memory vent
// coordinator never touches it; handlers consult it only after an
// operation has been accepted.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the document database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			collection TEXT NOT NULL,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_owner
			ON documents (user_id, collection, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize document schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put persists payload as a new document in the user's collection.
func (s *Store) Put(ctx context.Context, userID, collection string, payload any) (Document, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Document{}, fmt.Errorf("failed to marshal document payload: %w", err)
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		Collection: collection,
		Payload:    raw,
		CreatedAt:  time.Now().UTC(),
	}

	const insert = `INSERT INTO documents (id, user_id, collection, payload, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, insert, doc.ID, doc.UserID, doc.Collection, string(doc.Payload), doc.CreatedAt); err != nil {
		return Document{}, fmt.Errorf("failed to insert document: %w", err)
	}
	return doc, nil
}

// Get fetches a single document by id within the user's collection.
func (s *Store) Get(ctx context.Context, userID, collection, id string) (Document, error) {
	const query = `SELECT id, user_id, collection, payload, created_at FROM documents WHERE id = $1 AND user_id = $2 AND collection = $3`

	var doc Document
	var payload string
	err := s.db.QueryRowContext(ctx, query, id, userID, collection).
		Scan(&doc.ID, &doc.UserID, &doc.Collection, &payload, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to query document: %w", err)
	}
	doc.Payload = json.RawMessage(payload)
	return doc, nil
}

// List returns up to limit documents from the user's collection, newest
// first. A non-positive limit returns everything.
func (s *Store) List(ctx context.Context, userID, collection string, limit int) ([]Document, error) {
	query := `SELECT id, user_id, collection, payload, created_at FROM documents WHERE user_id = $1 AND collection = $2 ORDER BY created_at DESC, id DESC`
	args := []any{userID, collection}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var payload string
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Collection, &payload, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Payload = json.RawMessage(payload)
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return out, nil
}

// Delete removes a document from the user's collection.
func (s *Store) Delete(ctx context.Context, userID, collection, id string) error {
	const del = `DELETE FROM documents WHERE id = $1 AND user_id = $2 AND collection = $3`
	res, err := s.db.ExecContext(ctx, del, id, userID, collection)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
