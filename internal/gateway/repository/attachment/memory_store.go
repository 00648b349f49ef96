package attachment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memoryEntry struct {
	content     []byte
	contentType string
}

// MemoryStore holds attachments in process memory. Used when no object
// storage is configured and by tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(_ context.Context, docID, name string, content []byte, contentType string) error {
	docID = strings.TrimSpace(docID)
	name = strings.TrimSpace(name)
	if docID == "" {
		return fmt.Errorf("document id is required")
	}
	if name == "" {
		return fmt.Errorf("attachment name is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(docID, name)] = memoryEntry{
		content:     append([]byte(nil), content...),
		contentType: contentType,
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, docID, name string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data[objectKey(docID, name)]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), entry.content...), entry.contentType, nil
}

func (s *MemoryStore) List(_ context.Context, docID string) ([]File, error) {
	prefix := strings.TrimSpace(docID) + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]File, 0, 8)
	for key, entry := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, File{
			Name:        strings.TrimPrefix(key, prefix),
			ContentType: entry.contentType,
			Size:        int64(len(entry.content)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
