package relic

import (
	"log"
	"maps"
	"slices"
)

// Totals maps category -> item name -> expected count.
type Totals map[string]map[string]float64

// Add accumulates one item yield. Items without a category are ignored.
func (t Totals) Add(y ItemYield) {
	if y.Item.Category == "" {
		return
	}
	items, ok := t[y.Item.Category]
	if !ok {
		items = make(map[string]float64)
		t[y.Item.Category] = items
	}
	items[y.Item.Name] += y.Expected
}

// Categories returns the category names, sorted.
func (t Totals) Categories() []string {
	return slices.Sorted(maps.Keys(t))
}

// Items returns the item names of one category, sorted.
func (t Totals) Items(category string) []string {
	return slices.Sorted(maps.Keys(t[category]))
}

// Aggregate sums the yields of every configured state by category. It is
// recomputed from scratch on each call. States without a run are skipped,
// as are states whose computation fails; the failure is logged.
func Aggregate(states []State) Totals {
	totals := make(Totals)
	for _, s := range states {
		yields, err := s.Yield()
		if err != nil {
			log.Printf("relic: skipping relic in totals: %v", err)
			continue
		}
		for _, y := range yields {
			totals.Add(y)
		}
	}
	return totals
}
