package proposal

import (
	"fmt"
	"strings"

	"grantforge/internal/outline"
	"grantforge/internal/rank"
)

// maxGroundingChunks bounds how many knowledge fragments are injected
// into a generation prompt.
const maxGroundingChunks = 4

// BuildGeneratePrompt assembles the generation prompt: project idea and
// constraints, the expected outline, the selected partners, and the
// top-ranked grounding fragments.
func BuildGeneratePrompt(idea, constraints string, entries []outline.Entry, partners []Partner, grounding []rank.Ranked[KnowledgeChunk], targetBudget int64) string {
	var b strings.Builder
	b.WriteString("You are drafting a grant proposal. Respond with a single JSON object ")
	b.WriteString(`with fields: title, summary, sections (object keyed by section key, HTML values), `)
	b.WriteString(`workPackages (name, description, duration, activities[{name, description, leadPartner, estimatedBudget}], deliverables), `)
	b.WriteString(`budget (label, cost, description, breakdown[{subItem, quantity, unitCost, total}], partnerAllocations[{partner, amount}]), `)
	b.WriteString("risks (description, likelihood, impact, mitigation). No markdown fences, no commentary.\n")

	b.WriteString("\n[PROJECT IDEA]\n")
	b.WriteString(strings.TrimSpace(idea))
	if c := strings.TrimSpace(constraints); c != "" {
		b.WriteString("\n\n[CONSTRAINTS]\n")
		b.WriteString(c)
	}
	if targetBudget > 0 {
		fmt.Fprintf(&b, "\n\n[TOTAL BUDGET]\n%d\n", targetBudget)
	}

	b.WriteString("\n[SECTIONS]\nProduce content for these section keys:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s%s (%s)\n", strings.Repeat("  ", e.Depth), e.Key, e.Label)
	}

	if len(partners) > 0 {
		b.WriteString("\n[CONSORTIUM]\n")
		for _, p := range partners {
			fmt.Fprintf(&b, "- %s (%s): %s\n", p.Name, p.Country, p.Description)
		}
	}

	if len(grounding) > 0 {
		b.WriteString("\n[REFERENCE MATERIAL]\nGround the proposal in the following fragments:\n")
		for _, g := range grounding {
			fmt.Fprintf(&b, "--- %s ---\n%s\n", g.Item.Title, g.Item.Content)
		}
	}
	return b.String()
}

// BuildEditPrompt assembles the prompt for an instructed edit. When a
// section key is given, the model is asked for that section only;
// otherwise it may return any subset of document fields.
func BuildEditPrompt(doc Document, instruction, sectionKey string) string {
	var b strings.Builder
	if sectionKey != "" {
		fmt.Fprintf(&b, "Rewrite the %q section of the proposal below. ", sectionKey)
		fmt.Fprintf(&b, `Respond with a single JSON object {"sections": {%q: "<updated HTML>"}}.`, sectionKey)
	} else {
		b.WriteString("Apply the instruction to the proposal below. ")
		b.WriteString("Respond with a single JSON object containing only the changed fields, using the same field names as the input.")
	}
	b.WriteString(" No markdown fences, no commentary.\n")

	b.WriteString("\n[INSTRUCTION]\n")
	b.WriteString(strings.TrimSpace(instruction))

	b.WriteString("\n\n[PROPOSAL]\n")
	b.WriteString(renderForPrompt(doc, sectionKey))
	return b.String()
}

// renderForPrompt serializes the parts of the document the edit needs:
// the full document for free-form edits, title plus the one section for
// targeted ones, keeping the prompt inside provider token budgets.
func renderForPrompt(doc Document, sectionKey string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nSummary: %s\n", doc.Title, doc.Summary)
	if sectionKey != "" {
		fmt.Fprintf(&b, "Section %s:\n%s\n", sectionKey, doc.Sections[sectionKey])
		return b.String()
	}
	for key, html := range doc.Sections {
		fmt.Fprintf(&b, "Section %s:\n%s\n", key, html)
	}
	for _, item := range doc.Budget {
		fmt.Fprintf(&b, "Budget: %s = %d\n", item.Label, item.Cost)
	}
	return b.String()
}
