// Package sqlitestore keeps the same document-per-collection model as the
// flat JSON files but inside an embedded SQLite database, so the persistence
// strategy can be swapped without touching the services.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	doc        TEXT    NOT NULL,
	PRIMARY KEY (collection, position)
)`

// Open opens (creating if needed) the database at path and ensures the
// documents table exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// Collection stores []T as one JSON document row per element, ordered by
// position. Save replaces the whole collection, matching the snapshot
// semantics of the file backend.
type Collection[T any] struct {
	db   *sql.DB
	name string
}

func NewCollection[T any](db *sql.DB, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name}
}

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT doc FROM documents WHERE collection = ? ORDER BY position`, c.name)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.name, err)
		}
		var item T
		if err := json.Unmarshal([]byte(doc), &item); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", c.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.name, err)
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ?`, c.name); err != nil {
			return fmt.Errorf("clear %s: %w", c.name, err)
		}

		for i, item := range items {
			doc, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("encode %s document: %w", c.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO documents (collection, position, doc) VALUES (?, ?, ?)`,
				c.name, i, string(doc)); err != nil {
				return fmt.Errorf("insert %s document: %w", c.name, err)
			}
		}
		return nil
	})
}

func (c *Collection[T]) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return fmt.Errorf("failed to execute withTx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
