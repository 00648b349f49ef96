package jsonrepair

import "regexp"

// Strategy is one textual repair step. Apply returns the repaired text
// and whether anything changed; unchanged text means the strategy does
// not apply. Strategies are pure so each can be tested in isolation,
// away from bracket balancing and parsing.
type Strategy struct {
	Name  string
	Apply func(s string) (string, bool)
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*$`)
	danglingColonRe = regexp.MustCompile(`:\s*$`)
	openStringRe    = regexp.MustCompile(`,?\s*"(?:[^"\\]|\\.)*"\s*:\s*"(?:[^"\\]|\\.)*$`)
	bareKeyRe       = regexp.MustCompile(`,?\s*"(?:[^"\\]|\\.)*"\s*$`)
)

// Strategies is the ordered repair chain. Order matters: each step
// assumes the previous ones did not apply to the current tail.
var Strategies = []Strategy{
	{Name: "trailing_comma", Apply: stripRe(trailingCommaRe)},
	{Name: "dangling_colon", Apply: stripRe(danglingColonRe)},
	{Name: "open_string_field", Apply: stripRe(openStringRe)},
	{Name: "bare_trailing_key", Apply: stripRe(bareKeyRe)},
}

func stripRe(re *regexp.Regexp) func(string) (string, bool) {
	return func(s string) (string, bool) {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return s, false
		}
		return s[:loc[0]], true
	}
}
