package outline

import (
	"regexp"
	"sort"
	"strings"
)

// Package outline flattens a hierarchical section template into the
// ordered outline that drives rendering and "still needs generating"
// state. Templates are immutable descriptors; every resolution builds a
// fresh outline, so a shared default template can never leak state
// between requests.

// TemplateNode is one node of a section template forest.
type TemplateNode struct {
	Key         string         `json:"key,omitempty" yaml:"key,omitempty"`
	Label       string         `json:"label" yaml:"label"`
	Subsections []TemplateNode `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// Entry is one row of a resolved outline.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// DeriveKey produces the stable lookup key for a label: lowercase,
// non-word characters stripped, whitespace runs collapsed to a single
// underscore. The same label always yields the same key; content
// lookups depend on that.
func DeriveKey(label string) string {
	k := strings.ToLower(strings.TrimSpace(label))
	k = nonWordRe.ReplaceAllString(k, "")
	k = whitespaceRe.ReplaceAllString(k, "_")
	return strings.Trim(k, "_")
}

// DeriveLabel reverses the key convention for orphan section keys:
// underscores become spaces and each word is title-cased.
func DeriveLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Resolve flattens the template forest in pre-order (roots at depth 0)
// and appends any generated section key the template does not cover at
// depth 0, labeled from the key. A nil or empty template falls back to
// the default outline. The input forest is never mutated.
func Resolve(template []TemplateNode, sections map[string]string) []Entry {
	if len(template) == 0 {
		template = Default()
	}

	var entries []Entry
	var flatten func(nodes []TemplateNode, depth int)
	flatten = func(nodes []TemplateNode, depth int) {
		for _, node := range nodes {
			key := node.Key
			if key == "" {
				key = DeriveKey(node.Label)
			}
			label := node.Label
			if label == "" {
				label = DeriveLabel(key)
			}
			entries = append(entries, Entry{Key: key, Label: label, Depth: depth})
			flatten(node.Subsections, depth+1)
		}
	}
	flatten(template, 0)

	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Key] = true
	}

	// Orphan content keys are appended rather than treated as an error.
	// Sorted so the output is deterministic across map iteration.
	extra := make([]string, 0)
	for key := range sections {
		if key != "" && !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		entries = append(entries, Entry{Key: key, Label: DeriveLabel(key), Depth: 0})
	}
	return entries
}

// Default is the outline used when no template is supplied: the
// sections every grant scheme asks for.
func Default() []TemplateNode {
	return []TemplateNode{
		{Key: "summary", Label: "Executive Summary"},
		{Key: "objectives", Label: "Objectives"},
		{Key: "methodology", Label: "Methodology"},
		{Key: "work_packages", Label: "Work Packages"},
		{Key: "budget", Label: "Budget"},
		{Key: "consortium", Label: "Consortium"},
		{Key: "impact", Label: "Impact"},
		{Key: "risks", Label: "Risk Management"},
	}
}
