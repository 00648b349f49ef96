package proposal

import (
	"strings"
	"time"
)

// Document is a generated grant proposal. It is owned by the request
// that last wrote it; concurrent writers race and the later write wins
// in full.
type Document struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Summary      string            `json:"summary"`
	Sections     map[string]string `json:"sections"`
	WorkPackages []WorkPackage     `json:"workPackages"`
	Budget       []BudgetItem      `json:"budget"`
	Partners     []string          `json:"partners"`
	Risks        []Risk            `json:"risks"`
	TargetBudget int64             `json:"targetBudget"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// BudgetItem is one line of the top-level budget. Cost must equal the
// sum of Breakdown totals and the sum of PartnerAllocations whenever
// those are non-empty.
type BudgetItem struct {
	Label              string              `json:"label"`
	Cost               int64               `json:"cost"`
	Description        string              `json:"description,omitempty"`
	Breakdown          []BreakdownRow      `json:"breakdown,omitempty"`
	PartnerAllocations []PartnerAllocation `json:"partnerAllocations,omitempty"`
}

type BreakdownRow struct {
	SubItem  string `json:"subItem"`
	Quantity int64  `json:"quantity"`
	UnitCost int64  `json:"unitCost"`
	Total    int64  `json:"total"`
}

type PartnerAllocation struct {
	Partner string `json:"partner"`
	Amount  int64  `json:"amount"`
}

type WorkPackage struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	Activities   []Activity `json:"activities,omitempty"`
	Deliverables []string   `json:"deliverables,omitempty"`
}

type Activity struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	LeadPartner     string `json:"leadPartner,omitempty"`
	EstimatedBudget int64  `json:"estimatedBudget"`
}

type Risk struct {
	Description string `json:"description"`
	Likelihood  string `json:"likelihood,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Mitigation  string `json:"mitigation,omitempty"`
}

// Partner is a candidate collaborator organization. RelevanceScore and
// MatchReasons are computed per request and never persisted.
type Partner struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country,omitempty"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
	Experience  string   `json:"experience"`

	RelevanceScore int      `json:"relevanceScore,omitempty"`
	MatchReasons   []string `json:"matchReasons,omitempty"`
}

// MatchKeywords and MatchText make Partner rankable.
func (p Partner) MatchKeywords() []string { return p.Keywords }
func (p Partner) MatchText() string {
	return strings.TrimSpace(p.Description + " " + p.Experience)
}

// KnowledgeChunk is an indexed knowledge fragment used for retrieval
// grounding: top-ranked chunks are injected into the next prompt.
type KnowledgeChunk struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Content  string   `json:"content"`
	Source   string   `json:"source,omitempty"`

	RelevanceScore int      `json:"relevanceScore,omitempty"`
	MatchReasons   []string `json:"matchReasons,omitempty"`
}

func (c KnowledgeChunk) MatchKeywords() []string { return c.Keywords }
func (c KnowledgeChunk) MatchText() string {
	return strings.TrimSpace(c.Title + " " + c.Content)
}
