package budget

import (
	"math"

	"grantforge/internal/proposal"
)

// Package budget rebalances the three-level budget hierarchy of a
// document so every figure sums exactly to the caller-supplied target.
// Generator-produced numbers are approximate; one deterministic pass
// removes all drift without another provider round-trip. Enforcement
// always converges and never errors.

// Enforce establishes the budget invariants on doc in place:
//
//	Σ Budget[].Cost == target
//	item.Cost == Σ item.Breakdown[].Total   (breakdown non-empty)
//	item.Cost == Σ item.PartnerAllocations[].Amount (allocations non-empty)
//	Σ activities[].EstimatedBudget == target (when tracked per activity)
func Enforce(doc *proposal.Document, target int64) {
	if doc == nil || target < 0 {
		return
	}
	doc.TargetBudget = target

	rebalanceItems(doc, target)
	for i := range doc.Budget {
		fixBreakdown(&doc.Budget[i])
		fixAllocations(&doc.Budget[i])
	}
	fixActivities(doc, target)
}

// rebalanceItems scales every item proportionally, rounding as it goes,
// and gives the last item the exact remainder so the sum matches the
// target by construction rather than by rounding luck.
func rebalanceItems(doc *proposal.Document, target int64) {
	var currentSum int64
	for _, item := range doc.Budget {
		currentSum += item.Cost
	}

	switch {
	case currentSum == 0 && target > 0:
		doc.Budget = append(doc.Budget, syntheticItem(doc, target))
	case currentSum > 0 && currentSum != target:
		scale := float64(target) / float64(currentSum)
		var running int64
		for i := range doc.Budget {
			if i == len(doc.Budget)-1 {
				doc.Budget[i].Cost = target - running
				break
			}
			doc.Budget[i].Cost = int64(math.Round(float64(doc.Budget[i].Cost) * scale))
			running += doc.Budget[i].Cost
		}
	}
}

// syntheticItem covers the full target when the generator produced no
// usable budget at all. If the document names partners, the item is
// split evenly across them.
func syntheticItem(doc *proposal.Document, target int64) proposal.BudgetItem {
	item := proposal.BudgetItem{
		Label:       "Project implementation",
		Cost:        target,
		Description: "Overall project costs pending detailed breakdown",
	}
	if n := int64(len(doc.Partners)); n > 0 {
		var running int64
		for i, partner := range doc.Partners {
			amount := target / n
			if i == len(doc.Partners)-1 {
				amount = target - running
			}
			item.PartnerAllocations = append(item.PartnerAllocations, proposal.PartnerAllocation{
				Partner: partner,
				Amount:  amount,
			})
			running += amount
		}
	}
	return item
}

// fixBreakdown reconciles a non-empty breakdown with the item cost by
// adjusting only the row with the largest total. Touching a single row
// keeps the correction auditable to one line item.
func fixBreakdown(item *proposal.BudgetItem) {
	if len(item.Breakdown) == 0 {
		return
	}
	var sum int64
	largest := 0
	for i, row := range item.Breakdown {
		sum += row.Total
		if row.Total > item.Breakdown[largest].Total {
			largest = i
		}
	}
	if diff := item.Cost - sum; diff != 0 {
		item.Breakdown[largest].Total += diff
	}
}

func fixAllocations(item *proposal.BudgetItem) {
	if len(item.PartnerAllocations) == 0 {
		return
	}
	var sum int64
	largest := 0
	for i, alloc := range item.PartnerAllocations {
		sum += alloc.Amount
		if alloc.Amount > item.PartnerAllocations[largest].Amount {
			largest = i
		}
	}
	if diff := item.Cost - sum; diff != 0 {
		item.PartnerAllocations[largest].Amount += diff
	}
}

// fixActivities reconciles the activity-level soft invariant. A document
// whose activities carry no budget at all is treated as not tracking
// budget at that granularity and left alone.
func fixActivities(doc *proposal.Document, target int64) {
	var sum int64
	largestWP, largestAct := -1, -1
	var largestVal int64 = math.MinInt64
	for wi := range doc.WorkPackages {
		for ai := range doc.WorkPackages[wi].Activities {
			v := doc.WorkPackages[wi].Activities[ai].EstimatedBudget
			sum += v
			if v > largestVal {
				largestWP, largestAct, largestVal = wi, ai, v
			}
		}
	}
	if largestWP < 0 || sum == 0 || sum == target {
		return
	}
	doc.WorkPackages[largestWP].Activities[largestAct].EstimatedBudget += target - sum
}
