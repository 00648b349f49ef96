package attachment

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "d1", "call.pdf", []byte("pdf bytes"), "application/pdf"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	content, contentType, err := s.Get(ctx, "d1", "call.pdf")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(content) != "pdf bytes" || contentType != "application/pdf" {
		t.Fatalf("unexpected content %q type %q", content, contentType)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, _, err := s.Get(context.Background(), "d1", "nope.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListScopedToDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Put(ctx, "d1", "b.txt", []byte("b"), "")
	_ = s.Put(ctx, "d1", "a.txt", []byte("a"), "")
	_ = s.Put(ctx, "d2", "other.txt", []byte("x"), "")

	files, err := s.List(ctx, "d1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a.txt" || files[1].Name != "b.txt" {
		t.Fatalf("unexpected listing: %+v", files)
	}
}
