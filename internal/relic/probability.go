package relic

import (
	"errors"
	"fmt"
)

var ErrUnknownRarityOrRefinement = errors.New("unknown rarity or refinement")

// Refinement shifts the base distribution of a relic toward rarer tiers.
type Refinement string

const (
	Intact   Refinement = "intact"
	Flawless Refinement = "flawless"
	Radiant  Refinement = "radiant"
)

// probabilities holds the chance that one draw yields one specific item of
// the given rarity. Bronze mass is already split across the 3 bronze slots.
// The rows do not sum to 1 over a 5-reward relic; the gap is left as is.
var probabilities = map[Refinement]map[Rarity]float64{
	Intact:   {Gold: 0.02, Silver: 0.11, Bronze: 0.76 / 3},
	Flawless: {Gold: 0.06, Silver: 0.17, Bronze: 0.60 / 3},
	Radiant:  {Gold: 0.10, Silver: 0.20, Bronze: 0.50 / 3},
}

// BaseProbability returns the single-draw probability of one item of the
// given rarity in a relic of the given refinement.
func BaseProbability(ref Refinement, rarity Rarity) (float64, error) {
	row, ok := probabilities[ref]
	if !ok {
		return 0, fmt.Errorf("%w: refinement %q", ErrUnknownRarityOrRefinement, string(ref))
	}
	p, ok := row[rarity]
	if !ok {
		return 0, fmt.Errorf("%w: rarity %s for %s", ErrUnknownRarityOrRefinement, rarity, ref)
	}
	return p, nil
}
