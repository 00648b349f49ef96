package normalize

import (
	"strings"
	"unicode"
)

// Package normalize canonicalizes the field-name variants that
// generative providers produce for the same schema. All accepted
// spellings live in one synonym table; call sites never probe for
// alternates themselves.

// synonyms maps each accepted alias to its canonical field name.
// When both spellings are present, the canonical field wins. When only
// the alias is present, the value is copied to the canonical field and
// the alias is kept, so older records round-trip unchanged.
var synonyms = map[string]string{
	"unit_cost":           "unitCost",
	"unitPrice":           "unitCost",
	"unit_price":          "unitCost",
	"sub_item":            "subItem",
	"item":                "subItem",
	"total_cost":          "total",
	"price":               "cost",
	"estimated_budget":    "estimatedBudget",
	"estimated_cost":      "estimatedBudget",
	"lead_partner":        "leadPartner",
	"partner_allocations": "partnerAllocations",
	"work_packages":       "workPackages",
	"budget_items":        "budget",
	"workpackages":        "workPackages",
}

// sectionContainers are fields whose map keys are section keys and get
// normalized to snake_case instead of alias lookup.
var sectionContainers = map[string]bool{
	"sections": true,
}

// Canonicalize rewrites a decoded JSON value in place according to the
// synonym table and returns it. Slices and nested objects are walked
// recursively.
func Canonicalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for key, val := range x {
			canon, ok := synonyms[key]
			if !ok {
				continue
			}
			if _, exists := x[canon]; exists {
				continue // canonical field wins
			}
			x[canon] = val
		}
		for key, val := range x {
			if sectionContainers[key] {
				if m, ok := val.(map[string]any); ok {
					x[key] = canonicalizeSectionKeys(m)
					continue
				}
			}
			x[key] = Canonicalize(val)
		}
		return x
	case []any:
		for i := range x {
			x[i] = Canonicalize(x[i])
		}
		return x
	default:
		return v
	}
}

func canonicalizeSectionKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, val := range m {
		canon := SectionKey(key)
		if _, exists := out[canon]; exists && canon != key {
			continue // an entry already stored under the canonical key wins
		}
		out[canon] = val
	}
	return out
}

// SectionKey converts a section key to its canonical snake_case form.
// CamelCase keys from older generations map onto the same keys the
// outline resolver derives from labels.
func SectionKey(key string) string {
	key = strings.TrimSpace(key)
	var b strings.Builder
	for i, r := range key {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-':
			if !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}
