package jsonrepair

import (
	"encoding/json"
	"fmt"
	"strings"
)

/*
Package jsonrepair recovers well-formed JSON from unreliable generator
output. Providers return free text that usually contains a JSON value,
often wrapped in markdown fences and sometimes cut off mid-field by the
token budget.

The recovery order is fixed:
 1. strip surrounding code fences
 2. cut the first-open/last-close bracket window and parse it
 3. close the window's open brackets and reparse
 4. apply textual repair strategies in order, closing open brackets
    after each strip, and reparse
 5. truncate at the last complete string field and close
 6. give up with an UnrepairableError

Identical input always yields identical output. The engine never hands
back a value that did not survive a full parse.
*/

// UnrepairableError is returned when no strategy yields parseable JSON.
// It carries the length of the original text and the last parse error so
// callers can log diagnostics without retaining the raw payload.
type UnrepairableError struct {
	TextLen int
	LastErr error
}

func (e *UnrepairableError) Error() string {
	return fmt.Sprintf("jsonrepair: unrepairable output (%d chars): %v", e.TextLen, e.LastErr)
}

func (e *UnrepairableError) Unwrap() error { return e.LastErr }

// Extract recovers a JSON value from raw provider text.
func Extract(raw string) (json.RawMessage, error) {
	s := stripFences(raw)

	window, ok := bracketWindow(s)
	if !ok {
		return nil, &UnrepairableError{TextLen: len(raw), LastErr: fmt.Errorf("no JSON object or array found")}
	}

	var lastErr error
	if msg, err := parse(window); err == nil {
		return msg, nil
	} else {
		lastErr = err
	}

	// A window that merely lost its closing tokens to truncation is
	// recovered whole, before any field is sacrificed.
	if msg, err := parse(closeOpenBrackets(window)); err == nil {
		return msg, nil
	} else {
		lastErr = err
	}

	// Progressive repairs. Each strategy strips a suspect tail; the
	// remainder is closed and reparsed before trying the next one.
	cur := window
	for _, st := range Strategies {
		stripped, changed := st.Apply(cur)
		if !changed {
			continue
		}
		cur = stripped
		closed := closeOpenBrackets(cur)
		msg, err := parse(closed)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}

	// Last resort: cut back to the last complete "..."-terminated field
	// value that is followed by a comma, then close whatever is open.
	if truncated, ok := truncateAtLastCompleteField(window); ok {
		msg, err := parse(closeOpenBrackets(truncated))
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}

	return nil, &UnrepairableError{TextLen: len(raw), LastErr: lastErr}
}

// Unmarshal extracts a JSON value from raw text and decodes it into v.
func Unmarshal(raw string, v any) error {
	msg, err := Extract(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(msg, v)
}

func parse(s string) (json.RawMessage, error) {
	var scratch any
	if err := json.Unmarshal([]byte(s), &scratch); err != nil {
		return nil, err
	}
	return json.RawMessage(s), nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag, leaving inner text untouched.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the fence line including any language tag.
		rest = rest[nl+1:]
	}
	if end := strings.LastIndex(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// bracketWindow cuts the substring from the first opening brace or
// bracket to the last closing token of the same kind. Returns false when
// the text contains no opener at all.
func bracketWindow(s string) (string, bool) {
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	start, closer := -1, byte('}')
	switch {
	case objStart < 0 && arrStart < 0:
		return "", false
	case objStart < 0:
		start, closer = arrStart, ']'
	case arrStart < 0 || objStart < arrStart:
		start = objStart
	default:
		start, closer = arrStart, ']'
	}

	end := strings.LastIndexByte(s, closer)
	if end > start {
		return s[start : end+1], true
	}
	// No closer at all: hand the open tail to the repair chain.
	return s[start:], true
}

// closeOpenBrackets appends the closing tokens implied by unmatched
// openers, innermost first. Brackets inside string literals are
// ignored. An unterminated string is left open on purpose: the result
// will not parse, which pushes the engine on to the stripping
// strategies instead of blessing a half-written value.
func closeOpenBrackets(s string) string {
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// truncateAtLastCompleteField cuts the text just after the last string
// value that terminates with a quote followed by a comma.
func truncateAtLastCompleteField(s string) (string, bool) {
	idx := strings.LastIndex(s, `",`)
	if idx < 0 {
		return "", false
	}
	return s[:idx+1], true
}
