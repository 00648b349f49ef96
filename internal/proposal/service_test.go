package proposal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grantforge/internal/jsonrepair"
	"grantforge/internal/llmclient"
)

func testDeps(t *testing.T, providerText string) (Deps, map[string]Document) {
	t.Helper()
	stored := map[string]Document{}
	return Deps{
		Generate: func(_ context.Context, _ string, _ *llmclient.Attachment) (string, error) {
			return providerText, nil
		},
		GetDocument: func(_ context.Context, id string) (Document, bool, error) {
			doc, ok := stored[id]
			return doc, ok, nil
		},
		PutDocument: func(_ context.Context, doc Document) error {
			stored[doc.ID] = doc
			return nil
		},
		Partners: func(_ context.Context) ([]Partner, error) {
			return []Partner{
				{ID: "p1", Name: "Acme Labs", Keywords: []string{"AI"}, Description: "applied AI research"},
				{ID: "p2", Name: "Beta Marine", Keywords: []string{"maritime"}, Description: "ship logistics"},
			}, nil
		},
		Chunks: func(_ context.Context) ([]KnowledgeChunk, error) {
			return []KnowledgeChunk{
				{ID: "k1", Title: "AI funding trends", Keywords: []string{"AI"}, Content: "trends in AI grants"},
				{ID: "k2", Title: "Unrelated", Keywords: []string{"volcanoes"}, Content: "lava flows"},
			}, nil
		},
		Now:   func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string { return "doc-1" },
	}, stored
}

func TestGenerate_FullPipeline(t *testing.T) {
	// Truncated provider output with alias field names: the pipeline
	// must repair, canonicalize, and rebalance it.
	raw := "```json\n" + `{
		"title": "AI for Ports",
		"summary": "Smart logistics",
		"sections": {"projectSummary": "<p>intro</p>"},
		"budget": [
			{"label": "Staff", "price": 100000},
			{"label": "Equipment", "cost": 80000}
		],
		"risks": [{"description": "Adoption risk`

	deps, stored := testDeps(t, raw)
	doc, err := Generate(context.Background(), GenerateInput{
		Idea:         "deploying AI for port logistics",
		PartnerIDs:   []string{"p1"},
		TargetBudget: 250000,
	}, deps)
	require.NoError(t, err)

	require.Equal(t, "doc-1", doc.ID)
	require.Equal(t, "AI for Ports", doc.Title)

	// Section keys are canonicalized to snake_case.
	require.Contains(t, doc.Sections, "project_summary")

	// Budget rebalanced to the exact target.
	var sum int64
	for _, item := range doc.Budget {
		sum += item.Cost
	}
	require.Equal(t, int64(250000), sum)
	require.Equal(t, int64(138889), doc.Budget[0].Cost)

	// Selected partners recorded when the generator named none.
	require.Equal(t, []string{"Acme Labs"}, doc.Partners)

	require.Contains(t, stored, "doc-1")
}

func TestGenerate_PromptCarriesGroundingAndOutline(t *testing.T) {
	var captured string
	deps, _ := testDeps(t, `{"title":"X"}`)
	inner := deps.Generate
	deps.Generate = func(ctx context.Context, prompt string, att *llmclient.Attachment) (string, error) {
		captured = prompt
		return inner(ctx, prompt, att)
	}

	_, err := Generate(context.Background(), GenerateInput{Idea: "an AI observatory"}, deps)
	require.NoError(t, err)

	// Relevant chunk in, irrelevant chunk out.
	require.Contains(t, captured, "AI funding trends")
	require.NotContains(t, captured, "lava flows")
	// Default outline drives the section list.
	require.Contains(t, captured, "summary")
	require.Contains(t, captured, "work_packages")
}

func TestGenerate_UnrepairableSurfaced(t *testing.T) {
	deps, stored := testDeps(t, "I cannot help with that request.")
	_, err := Generate(context.Background(), GenerateInput{Idea: "anything"}, deps)
	require.Error(t, err)
	var ue *jsonrepair.UnrepairableError
	require.ErrorAs(t, err, &ue)
	require.Empty(t, stored, "no partial document may be persisted")
}

func TestGenerate_ProviderErrorPropagates(t *testing.T) {
	deps, _ := testDeps(t, "")
	deps.Generate = func(context.Context, string, *llmclient.Attachment) (string, error) {
		return "", llmclient.ErrRateLimited
	}
	_, err := Generate(context.Background(), GenerateInput{Idea: "anything"}, deps)
	require.ErrorIs(t, err, llmclient.ErrRateLimited)
}

func TestAIEdit_SectionMerge(t *testing.T) {
	deps, stored := testDeps(t, `{"sections":{"impact":"<p>updated impact</p>"}}`)
	stored["doc-7"] = Document{
		ID:           "doc-7",
		Title:        "Existing",
		Sections:     map[string]string{"impact": "<p>old</p>", "summary": "<p>keep</p>"},
		Budget:       []BudgetItem{{Label: "all", Cost: 50000}},
		TargetBudget: 50000,
	}

	doc, edited, err := AIEdit(context.Background(), EditInput{
		DocumentID:  "doc-7",
		Instruction: "strengthen the impact section",
		SectionKey:  "impact",
	}, deps)
	require.NoError(t, err)
	require.Equal(t, "impact", edited)
	require.Equal(t, "<p>updated impact</p>", doc.Sections["impact"])
	require.Equal(t, "<p>keep</p>", doc.Sections["summary"], "untouched sections survive")
	require.Equal(t, "Existing", doc.Title)

	// Budget invariant re-established after the merge.
	require.Equal(t, int64(50000), doc.Budget[0].Cost)
}

func TestAIEdit_BudgetUpdateReenforced(t *testing.T) {
	deps, stored := testDeps(t, `{"budget":[{"label":"Staff","cost":70000},{"label":"Travel","cost":70000}]}`)
	stored["doc-9"] = Document{
		ID:           "doc-9",
		Budget:       []BudgetItem{{Label: "old", Cost: 100000}},
		TargetBudget: 100000,
	}

	doc, _, err := AIEdit(context.Background(), EditInput{
		DocumentID:  "doc-9",
		Instruction: "split the budget",
	}, deps)
	require.NoError(t, err)
	require.Len(t, doc.Budget, 2)
	var sum int64
	for _, item := range doc.Budget {
		sum += item.Cost
	}
	require.Equal(t, int64(100000), sum, "edited budget must still hit the stored target")
}

func TestAIEdit_MissingDocument(t *testing.T) {
	deps, _ := testDeps(t, `{}`)
	_, _, err := AIEdit(context.Background(), EditInput{DocumentID: "nope", Instruction: "x"}, deps)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOutlineState(t *testing.T) {
	doc := Document{Sections: map[string]string{"summary": "<p>done</p>", "annex_1": "<p>x</p>"}}
	state := OutlineState(doc, nil)

	byKey := map[string]OutlineEntry{}
	for _, e := range state {
		byKey[e.Key] = e
	}
	require.True(t, byKey["summary"].HasContent)
	require.False(t, byKey["objectives"].HasContent)
	// Orphan generated key appended, marked as having content.
	require.True(t, byKey["annex_1"].HasContent)
}

func TestRankPartners(t *testing.T) {
	deps, _ := testDeps(t, "")
	ranked, err := RankPartners(context.Background(), "deploying AI for precision agriculture", deps)
	require.NoError(t, err)
	require.Equal(t, "Acme Labs", ranked[0].Name)
	require.GreaterOrEqual(t, ranked[0].RelevanceScore, 10)
	require.NotEmpty(t, ranked[0].MatchReasons)
	require.Zero(t, ranked[1].RelevanceScore)
}

func TestBuildEditPrompt_TargetedSectionOnly(t *testing.T) {
	doc := Document{
		Title:    "T",
		Sections: map[string]string{"impact": "<p>i</p>", "summary": "<p>s</p>"},
	}
	prompt := BuildEditPrompt(doc, "shorten", "impact")
	require.Contains(t, prompt, "<p>i</p>")
	require.False(t, strings.Contains(prompt, "<p>s</p>"), "other sections stay out of targeted prompts")
}

func TestProgressStages(t *testing.T) {
	deps, _ := testDeps(t, `{"title":"X"}`)
	var stages []string
	deps.Progress = func(stage string) { stages = append(stages, stage) }
	_, err := Generate(context.Background(), GenerateInput{Idea: "x"}, deps)
	require.NoError(t, err)
	require.Equal(t, []string{"prompt", "provider", "repair", "enforce", "persist"}, stages)
}
