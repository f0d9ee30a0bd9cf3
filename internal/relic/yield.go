package relic

import "math"

// OffcyclePreempt is the chance that one offcycle relic yields something
// that displaces the farmed reward.
const OffcyclePreempt = 0.02

// ComputeYield returns, per reward in the given priority order, the expected
// number of times per cycle that the reward is the best drop of a run.
//
// Each run draws run.ItemsPerRun independent rewards. Reward i counts when it
// is drawn and nothing ranked before it is. Rewards at or after offcycleID
// are discounted by the chance that none of the offcycle slots preempt them.
// An empty or unknown offcycleID applies no discount.
func ComputeYield(run Run, ordered []Reward, offcycleID string) ([]float64, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	n := float64(run.ItemsPerRun)
	discount := math.Pow(1-OffcyclePreempt, float64(run.OffcycleCapacity()))

	result := make([]float64, len(ordered))
	var (
		cumProb  float64 // single-draw mass of rewards ranked before i
		cumYield float64 // undiscounted yields of rewards ranked before i
		reached  bool
	)
	for i, rw := range ordered {
		reached = reached || (offcycleID != "" && rw.Item.ID == offcycleID)
		p, err := BaseProbability(run.Refinement, rw.Rarity)
		if err != nil {
			return nil, err
		}
		// P(at least one of the top i+1 rewards in a run) minus what the
		// higher ranked rewards already claimed
		marginal := 1 - math.Pow(1-p-cumProb, n) - cumYield
		if reached {
			result[i] = marginal * discount
		} else {
			result[i] = marginal
		}
		cumProb += p
		cumYield += marginal
	}
	for i := range result {
		result[i] *= float64(run.RunsPerCycle)
	}
	return result, nil
}
