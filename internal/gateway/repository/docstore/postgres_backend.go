package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"grantforge/internal/proposal"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS proposals (
  id TEXT PRIMARY KEY,
  doc JSONB NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *Store) getDB(ctx context.Context, id string) (proposal.Document, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return proposal.Document{}, err
	}
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM proposals WHERE id = $1`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return proposal.Document{}, ErrNotFound
	}
	if err != nil {
		return proposal.Document{}, err
	}
	var doc proposal.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return proposal.Document{}, fmt.Errorf("decode stored document %s: %w", id, err)
	}
	return doc, nil
}

func (s *Store) putDB(ctx context.Context, doc proposal.Document) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO proposals (id, doc, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (id)
DO UPDATE SET doc=EXCLUDED.doc, updated_at=NOW()`, doc.ID, raw)
	return err
}

func (s *Store) deleteDB(ctx context.Context, id string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) listDB(ctx context.Context) ([]proposal.Document, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM proposals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []proposal.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var doc proposal.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
