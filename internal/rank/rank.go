package rank

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Package rank scores candidates (partner organizations, knowledge
// fragments) against a free-text context. The same heuristic serves
// consortium selection and retrieval grounding: keyword hits dominate,
// loose token overlap breaks ties among keyword peers.

const (
	// keywordWeight is added for every candidate keyword found in the
	// context. Keyword hits are curated signals and outweigh any amount
	// of incidental token overlap.
	keywordWeight = 10

	// maxReasons caps the reasons recorded per candidate.
	maxReasons = 3
)

// Candidate is anything rankable: a curated keyword set plus free text.
type Candidate interface {
	MatchKeywords() []string
	MatchText() string
}

// Ranked pairs a candidate with its computed score. Reasons name the
// keyword hits only; token overlap is too noisy to enumerate.
type Ranked[T Candidate] struct {
	Item    T
	Score   int
	Reasons []string
}

// Rank scores every candidate against contextText and returns them in
// descending score order. The sort is stable: equal scores keep their
// input order.
func Rank[T Candidate](contextText string, items []T) []Ranked[T] {
	lowerCtx := strings.ToLower(contextText)
	tokens := Tokenize(contextText)

	out := make([]Ranked[T], len(items))
	for i, item := range items {
		out[i] = Ranked[T]{Item: item}
		for _, kw := range item.MatchKeywords() {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			if strings.Contains(lowerCtx, strings.ToLower(kw)) {
				out[i].Score += keywordWeight
				if len(out[i].Reasons) < maxReasons {
					out[i].Reasons = append(out[i].Reasons, fmt.Sprintf("keyword %q matches context", kw))
				}
			}
		}
		corpus := strings.ToLower(item.MatchText())
		for _, tok := range tokens {
			if strings.Contains(corpus, tok) {
				out[i].Score++
			}
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

// Top returns the first n ranked candidates with a positive score.
// Used to pick grounding fragments for the next provider prompt.
func Top[T Candidate](contextText string, items []T, n int) []Ranked[T] {
	ranked := Rank(contextText, items)
	out := ranked[:0:0]
	for _, r := range ranked {
		if len(out) == n {
			break
		}
		if r.Score <= 0 {
			break // sorted descending; nothing useful follows
		}
		out = append(out, r)
	}
	return out
}

// Tokenize returns the unique lowercase words of the context longer
// than three characters, in first-seen order.
func Tokenize(contextText string) []string {
	words := strings.FieldsFunc(strings.ToLower(contextText), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if len(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
