package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"grantforge/internal/budget"
	"grantforge/internal/llmclient"
	"grantforge/internal/outline"
	"grantforge/internal/rank"
)

// ErrNotFound reports an id with no stored document behind it.
var ErrNotFound = errors.New("document not found")

// Deps carries everything the proposal usecases need as function
// fields, so handlers and tests wire them without interface plumbing.
type Deps struct {
	Generate func(ctx context.Context, prompt string, att *llmclient.Attachment) (string, error)

	GetDocument func(ctx context.Context, id string) (Document, bool, error)
	PutDocument func(ctx context.Context, doc Document) error

	Partners func(ctx context.Context) ([]Partner, error)
	Chunks   func(ctx context.Context) ([]KnowledgeChunk, error)

	Template func(templateID string) []outline.TemplateNode

	Now   func() time.Time
	NewID func() string

	// Progress, when set, receives coarse stage names for streaming
	// surfaces. Stages: prompt, provider, repair, enforce, persist.
	Progress func(stage string)
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) progress(stage string) {
	if d.Progress != nil {
		d.Progress(stage)
	}
}

// GenerateInput is a full generation request.
type GenerateInput struct {
	Idea         string
	Constraints  string
	PartnerIDs   []string
	TemplateID   string
	TargetBudget int64
	Attachment   *llmclient.Attachment
}

// Generate runs the full pipeline: prompt → provider → repair →
// normalize → enforce → persist. The returned document satisfies every
// budget invariant for the requested target.
func Generate(ctx context.Context, in GenerateInput, deps Deps) (Document, error) {
	if strings.TrimSpace(in.Idea) == "" {
		return Document{}, fmt.Errorf("idea is required")
	}

	deps.progress("prompt")
	selected, err := selectPartners(ctx, in.PartnerIDs, deps)
	if err != nil {
		return Document{}, err
	}
	grounding, err := selectGrounding(ctx, in.Idea+" "+in.Constraints, deps)
	if err != nil {
		return Document{}, err
	}
	var template []outline.TemplateNode
	if deps.Template != nil {
		template = deps.Template(in.TemplateID)
	}
	entries := outline.Resolve(template, nil)
	prompt := BuildGeneratePrompt(in.Idea, in.Constraints, entries, selected, grounding, in.TargetBudget)

	deps.progress("provider")
	raw, err := deps.Generate(ctx, prompt, in.Attachment)
	if err != nil {
		return Document{}, fmt.Errorf("provider: %w", err)
	}

	deps.progress("repair")
	doc, err := DecodeDocument(raw)
	if err != nil {
		return Document{}, err
	}

	doc.ID = deps.NewID()
	doc.CreatedAt = deps.now()
	doc.UpdatedAt = doc.CreatedAt
	if len(doc.Partners) == 0 {
		for _, p := range selected {
			doc.Partners = append(doc.Partners, p.Name)
		}
	}

	deps.progress("enforce")
	if in.TargetBudget > 0 {
		budget.Enforce(&doc, in.TargetBudget)
	}

	deps.progress("persist")
	if err := deps.PutDocument(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("persist document: %w", err)
	}
	return doc, nil
}

// EditInput is an instructed edit against a stored document.
type EditInput struct {
	DocumentID  string
	Instruction string
	SectionKey  string
}

// AIEdit re-runs the extract → normalize → enforce chain on a partial
// update and merges it into the stored document. Returns the updated
// document and the key of the edited section ("" for free-form edits
// touching more than sections). The merge is read-modify-write with no
// version guard: the later of two concurrent edits wins in full.
func AIEdit(ctx context.Context, in EditInput, deps Deps) (Document, string, error) {
	if strings.TrimSpace(in.Instruction) == "" {
		return Document{}, "", fmt.Errorf("instruction is required")
	}
	doc, ok, err := deps.GetDocument(ctx, in.DocumentID)
	if err != nil {
		return Document{}, "", fmt.Errorf("load document: %w", err)
	}
	if !ok {
		return Document{}, "", fmt.Errorf("document %q: %w", in.DocumentID, ErrNotFound)
	}

	deps.progress("provider")
	prompt := BuildEditPrompt(doc, in.Instruction, in.SectionKey)
	raw, err := deps.Generate(ctx, prompt, nil)
	if err != nil {
		return Document{}, "", fmt.Errorf("provider: %w", err)
	}

	deps.progress("repair")
	fields, err := DecodeUpdate(raw)
	if err != nil {
		return Document{}, "", err
	}

	editedSection, err := mergeUpdate(&doc, fields, in.SectionKey)
	if err != nil {
		return Document{}, "", err
	}
	doc.UpdatedAt = deps.now()

	deps.progress("enforce")
	if doc.TargetBudget > 0 {
		budget.Enforce(&doc, doc.TargetBudget)
	}

	deps.progress("persist")
	if err := deps.PutDocument(ctx, doc); err != nil {
		return Document{}, "", fmt.Errorf("persist document: %w", err)
	}
	return doc, editedSection, nil
}

// mergeUpdate applies the decoded partial update. Section entries merge
// key by key; other known fields overwrite wholesale.
func mergeUpdate(doc *Document, fields map[string]json.RawMessage, explicitKey string) (string, error) {
	editedSection := ""
	if raw, ok := fields["sections"]; ok {
		var sections map[string]string
		if err := json.Unmarshal(raw, &sections); err != nil {
			return "", fmt.Errorf("decode sections update: %w", err)
		}
		if doc.Sections == nil {
			doc.Sections = make(map[string]string, len(sections))
		}
		for key, html := range sections {
			doc.Sections[key] = html
			editedSection = key
		}
		if len(sections) > 1 {
			editedSection = ""
		}
	}
	if explicitKey != "" {
		editedSection = explicitKey
	}

	overwrite := map[string]any{
		"title":        &doc.Title,
		"summary":      &doc.Summary,
		"workPackages": &doc.WorkPackages,
		"budget":       &doc.Budget,
		"partners":     &doc.Partners,
		"risks":        &doc.Risks,
	}
	for field, dst := range overwrite {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return "", fmt.Errorf("decode %s update: %w", field, err)
		}
	}
	return editedSection, nil
}

// OutlineEntry is a resolved outline row annotated with content state
// for the presentation layer.
type OutlineEntry struct {
	outline.Entry
	HasContent bool `json:"hasContent"`
}

// OutlineState resolves the document outline and marks which sections
// already have generated content.
func OutlineState(doc Document, template []outline.TemplateNode) []OutlineEntry {
	entries := outline.Resolve(template, doc.Sections)
	out := make([]OutlineEntry, len(entries))
	for i, e := range entries {
		out[i] = OutlineEntry{Entry: e, HasContent: strings.TrimSpace(doc.Sections[e.Key]) != ""}
	}
	return out
}

// RankPartners scores the candidate pool against a context string and
// returns annotated partners in descending relevance order.
func RankPartners(ctx context.Context, contextText string, deps Deps) ([]Partner, error) {
	pool, err := deps.Partners(ctx)
	if err != nil {
		return nil, fmt.Errorf("load partners: %w", err)
	}
	ranked := rank.Rank(contextText, pool)
	out := make([]Partner, len(ranked))
	for i, r := range ranked {
		p := r.Item
		p.RelevanceScore = r.Score
		p.MatchReasons = r.Reasons
		out[i] = p
	}
	return out, nil
}

func selectPartners(ctx context.Context, ids []string, deps Deps) ([]Partner, error) {
	if len(ids) == 0 || deps.Partners == nil {
		return nil, nil
	}
	pool, err := deps.Partners(ctx)
	if err != nil {
		return nil, fmt.Errorf("load partners: %w", err)
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Partner
	for _, p := range pool {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func selectGrounding(ctx context.Context, contextText string, deps Deps) ([]rank.Ranked[KnowledgeChunk], error) {
	if deps.Chunks == nil {
		return nil, nil
	}
	chunks, err := deps.Chunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge chunks: %w", err)
	}
	return rank.Top(contextText, chunks, maxGroundingChunks), nil
}
