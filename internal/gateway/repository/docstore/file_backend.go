package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"grantforge/internal/proposal"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []proposal.Document
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			s.byID[id] = row
		}
	})
}

func (s *Store) saveFile() error {
	s.mu.RLock()
	rows := make([]proposal.Document, 0, len(s.byID))
	for _, doc := range s.byID {
		rows = append(rows, doc)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(id string) (proposal.Document, bool, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	doc, ok := s.byID[id]
	s.mu.RUnlock()
	return doc, ok, nil
}

func (s *Store) putFile(doc proposal.Document) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.byID[strings.TrimSpace(doc.ID)] = doc
	s.mu.Unlock()
	return s.saveFile()
}

func (s *Store) deleteFile(id string) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	_, ok := s.byID[id]
	if ok {
		delete(s.byID, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return s.saveFile()
}

func (s *Store) listFile() ([]proposal.Document, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]proposal.Document, 0, len(s.byID))
	for _, doc := range s.byID {
		out = append(out, doc)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
