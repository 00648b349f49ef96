package proposal

import (
	"encoding/json"
	"fmt"

	"grantforge/internal/jsonrepair"
	"grantforge/internal/normalize"
)

// DecodeDocument turns raw provider text into a Document: repair the
// JSON, canonicalize field spellings, then decode. Extraction failures
// propagate as *jsonrepair.UnrepairableError; they are never coerced
// into a partial document.
func DecodeDocument(raw string) (Document, error) {
	m, err := decodeCanonical(raw)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := roundTrip(m, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// DecodeUpdate decodes a partial document update from provider text.
// Only keys present in the JSON are considered; the caller merges them
// into the stored document.
func DecodeUpdate(raw string) (map[string]json.RawMessage, error) {
	m, err := decodeCanonical(raw)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("re-encode update: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	return fields, nil
}

func decodeCanonical(raw string) (map[string]any, error) {
	msg, err := jsonrepair.Extract(raw)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, fmt.Errorf("provider output is not an object: %w", err)
	}
	normalize.Canonicalize(m)
	return m, nil
}

func roundTrip(m map[string]any, v any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
