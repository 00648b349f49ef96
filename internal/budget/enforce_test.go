package budget

import (
	"testing"

	"grantforge/internal/proposal"
)

func sumCosts(items []proposal.BudgetItem) int64 {
	var s int64
	for _, it := range items {
		s += it.Cost
	}
	return s
}

func TestEnforce_ScaleWithExactRemainder(t *testing.T) {
	doc := &proposal.Document{
		Budget: []proposal.BudgetItem{
			{Label: "Staff", Cost: 100000},
			{Label: "Equipment", Cost: 80000},
		},
	}
	Enforce(doc, 250000)

	if doc.Budget[0].Cost != 138889 {
		t.Fatalf("item 1: got %d, want 138889", doc.Budget[0].Cost)
	}
	if doc.Budget[1].Cost != 111111 {
		t.Fatalf("item 2: got %d, want 111111", doc.Budget[1].Cost)
	}
	if got := sumCosts(doc.Budget); got != 250000 {
		t.Fatalf("sum: got %d, want 250000", got)
	}
}

func TestEnforce_ExactSumForArbitraryTargets(t *testing.T) {
	targets := []int64{0, 1, 7, 999, 250000, 1_000_000, 123_456_789}
	for _, target := range targets {
		doc := &proposal.Document{
			Budget: []proposal.BudgetItem{
				{Label: "a", Cost: 33333},
				{Label: "b", Cost: 100},
				{Label: "c", Cost: 98765},
				{Label: "d", Cost: 1},
			},
		}
		Enforce(doc, target)
		if got := sumCosts(doc.Budget); got != target {
			t.Fatalf("target %d: sum is %d", target, got)
		}
	}
}

func TestEnforce_SynthesizesItemWhenEmpty(t *testing.T) {
	doc := &proposal.Document{
		Partners: []string{"Acme", "Beta", "Gamma"},
	}
	Enforce(doc, 100000)

	if len(doc.Budget) != 1 {
		t.Fatalf("expected one synthesized item, got %d", len(doc.Budget))
	}
	item := doc.Budget[0]
	if item.Cost != 100000 {
		t.Fatalf("synthesized cost: got %d", item.Cost)
	}
	if len(item.PartnerAllocations) != 3 {
		t.Fatalf("expected allocations for all partners, got %d", len(item.PartnerAllocations))
	}
	var allocSum int64
	for _, a := range item.PartnerAllocations {
		allocSum += a.Amount
	}
	if allocSum != 100000 {
		t.Fatalf("allocation sum: got %d", allocSum)
	}
}

func TestEnforce_ZeroSumZeroTarget(t *testing.T) {
	doc := &proposal.Document{}
	Enforce(doc, 0)
	if len(doc.Budget) != 0 {
		t.Fatalf("no item should be synthesized for a zero target")
	}
}

func TestEnforce_BreakdownLargestRowFix(t *testing.T) {
	doc := &proposal.Document{
		Budget: []proposal.BudgetItem{
			{
				Label: "Staff",
				Cost:  50000,
				Breakdown: []proposal.BreakdownRow{
					{SubItem: "Senior researcher", Quantity: 10, UnitCost: 3000, Total: 30000},
					{SubItem: "Assistant", Quantity: 10, UnitCost: 1500, Total: 15000},
				},
			},
		},
	}
	Enforce(doc, 50000)

	var sum int64
	for _, row := range doc.Budget[0].Breakdown {
		sum += row.Total
	}
	if sum != doc.Budget[0].Cost {
		t.Fatalf("breakdown sum %d != cost %d", sum, doc.Budget[0].Cost)
	}
	// Only the largest row absorbs the difference.
	if doc.Budget[0].Breakdown[0].Total != 35000 {
		t.Fatalf("largest row: got %d, want 35000", doc.Budget[0].Breakdown[0].Total)
	}
	if doc.Budget[0].Breakdown[1].Total != 15000 {
		t.Fatalf("other rows must not move: got %d", doc.Budget[0].Breakdown[1].Total)
	}
}

func TestEnforce_AllocationsFixed(t *testing.T) {
	doc := &proposal.Document{
		Budget: []proposal.BudgetItem{
			{
				Label: "Travel",
				Cost:  9000,
				PartnerAllocations: []proposal.PartnerAllocation{
					{Partner: "Acme", Amount: 5000},
					{Partner: "Beta", Amount: 5000},
				},
			},
		},
	}
	Enforce(doc, 9000)

	var sum int64
	for _, a := range doc.Budget[0].PartnerAllocations {
		sum += a.Amount
	}
	if sum != 9000 {
		t.Fatalf("allocation sum %d != 9000", sum)
	}
	if doc.Budget[0].PartnerAllocations[1].Amount != 5000 {
		t.Fatalf("only the largest allocation moves; second changed to %d", doc.Budget[0].PartnerAllocations[1].Amount)
	}
}

func TestEnforce_ActivityBudgets(t *testing.T) {
	doc := &proposal.Document{
		Budget: []proposal.BudgetItem{{Label: "all", Cost: 60000}},
		WorkPackages: []proposal.WorkPackage{
			{Name: "WP1", Activities: []proposal.Activity{
				{Name: "A1", EstimatedBudget: 20000},
				{Name: "A2", EstimatedBudget: 10000},
			}},
			{Name: "WP2", Activities: []proposal.Activity{
				{Name: "A3", EstimatedBudget: 25000},
			}},
		},
	}
	Enforce(doc, 60000)

	var sum int64
	for _, wp := range doc.WorkPackages {
		for _, a := range wp.Activities {
			sum += a.EstimatedBudget
		}
	}
	if sum != 60000 {
		t.Fatalf("activity sum %d != 60000", sum)
	}
	// A3 is the largest and absorbs the whole difference.
	if doc.WorkPackages[1].Activities[0].EstimatedBudget != 30000 {
		t.Fatalf("largest activity: got %d, want 30000", doc.WorkPackages[1].Activities[0].EstimatedBudget)
	}
}

func TestEnforce_UntrackedActivityBudgetsLeftAlone(t *testing.T) {
	doc := &proposal.Document{
		Budget: []proposal.BudgetItem{{Label: "all", Cost: 60000}},
		WorkPackages: []proposal.WorkPackage{
			{Name: "WP1", Activities: []proposal.Activity{{Name: "A1"}, {Name: "A2"}}},
		},
	}
	Enforce(doc, 60000)
	for _, a := range doc.WorkPackages[0].Activities {
		if a.EstimatedBudget != 0 {
			t.Fatalf("untracked activities must not be touched, got %d", a.EstimatedBudget)
		}
	}
}
