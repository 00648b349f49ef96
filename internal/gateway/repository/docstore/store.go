package docstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"grantforge/internal/proposal"
)

// ErrNotFound is returned when no document exists under the given id.
var ErrNotFound = errors.New("document not found")

// Store persists proposal documents. It runs against Postgres when a
// DSN is configured and falls back to a single JSON file otherwise, so
// local development needs no database.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]proposal.Document

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, proposal.Document]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]proposal.Document),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, proposal.Document](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// NewFromEnv selects the backend from DOC_STORE_PG_DSN, falling back to
// the file backend when the DSN is unset or the database is unreachable.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("DOC_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Get(ctx context.Context, id string) (proposal.Document, bool, error) {
	id = strings.TrimSpace(id)
	if s == nil || id == "" {
		return proposal.Document{}, false, nil
	}
	if s.db != nil {
		if s.cache != nil {
			if doc, ok := s.cache.Get(id); ok {
				return doc, true, nil
			}
		}
		doc, err := s.getDB(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return proposal.Document{}, false, nil
		}
		if err != nil {
			return proposal.Document{}, false, err
		}
		if s.cache != nil {
			s.cache.Add(id, doc)
		}
		return doc, true, nil
	}
	return s.getFile(id)
}

func (s *Store) Put(ctx context.Context, doc proposal.Document) error {
	if s == nil || strings.TrimSpace(doc.ID) == "" {
		return nil
	}
	if s.db != nil {
		if err := s.putDB(ctx, doc); err != nil {
			return err
		}
		if s.cache != nil {
			s.cache.Remove(doc.ID)
		}
		return nil
	}
	return s.putFile(doc)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if s == nil || id == "" {
		return ErrNotFound
	}
	if s.db != nil {
		if err := s.deleteDB(ctx, id); err != nil {
			return err
		}
		if s.cache != nil {
			s.cache.Remove(id)
		}
		return nil
	}
	return s.deleteFile(id)
}

// List returns every stored document ordered by id.
func (s *Store) List(ctx context.Context) ([]proposal.Document, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		return s.listDB(ctx)
	}
	return s.listFile()
}
