package llmclient

import (
	"context"
	"errors"
)

// ErrEmptyResponse means the provider returned no usable candidate text.
var ErrEmptyResponse = errors.New("empty response from provider")

// ErrRateLimited wraps provider quota errors so callers can surface a
// dedicated back-off status instead of a generic failure.
var ErrRateLimited = errors.New("provider rate limited")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// Attachment is a binary payload forwarded to the provider alongside
// the prompt (e.g. a call-for-proposals PDF).
type Attachment struct {
	Data     []byte
	MIMEType string
}

// Client is a generation provider. GenerateText returns the raw model
// text; it is nondeterministic, may be rate limited, and may truncate
// output to a token budget — downstream repair handles the latter.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt string, att *Attachment) (string, error)
	Close() error
}
