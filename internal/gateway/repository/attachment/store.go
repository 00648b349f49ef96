package attachment

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no attachment exists under the key.
var ErrNotFound = errors.New("attachment not found")

// File is a stored supporting document (call text, annexes, partner
// material) tied to a proposal.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Store persists proposal attachments.
type Store interface {
	Put(ctx context.Context, docID, name string, content []byte, contentType string) error
	Get(ctx context.Context, docID, name string) ([]byte, string, error)
	List(ctx context.Context, docID string) ([]File, error)
}
