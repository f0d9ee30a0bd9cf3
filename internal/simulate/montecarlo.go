package simulate

import (
	"math"

	"github.com/xtding233/relic-planner/internal/relic"
)

// Params describes the farming setup one simulation plays out.
type Params struct {
	Run      relic.Run
	Rewards  []relic.Reward // priority order, best first
	Offcycle string         // item id of the offcycle marker; "" for none
}

// Stats summarizes how often one reward was kept per cycle.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// RewardStats pairs a reward with its simulated per-cycle counts.
type RewardStats struct {
	Item   relic.Item   `json:"item"`
	Rarity relic.Rarity `json:"rarity"`
	Stats
}

// histStats summarizes a histogram where hist[k] is the number of cycles
// that kept the reward k times. Percentiles interpolate between ranks.
func histStats(hist []int) Stats {
	var n, sum float64
	for k, c := range hist {
		n += float64(c)
		sum += float64(k * c)
	}
	if n == 0 {
		return Stats{}
	}
	mean := sum / n
	var acc float64
	for k, c := range hist {
		d := float64(k) - mean
		acc += d * d * float64(c)
	}
	variance := acc / n

	// value at 0-based rank r of the sorted samples
	at := func(r int) float64 {
		seen := 0
		for k, c := range hist {
			seen += c
			if r < seen {
				return float64(k)
			}
		}
		return float64(len(hist) - 1)
	}
	percentile := func(p float64) float64 {
		pos := p * (n - 1)
		lo := int(math.Floor(pos))
		f := pos - float64(lo)
		if f == 0 {
			return at(lo)
		}
		return at(lo)*(1-f) + at(lo+1)*f
	}

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}

// simulateCycle plays RunsPerCycle runs and adds each run's kept reward to
// counts. Only the best ranked drop of a run is kept; if it sits at or after
// the offcycle marker, any hit on an offcycle slot takes its place.
func simulateCycle(p Params, weights []float64, marker int, rng RandomSource, counts []int) error {
	for r := 0; r < p.Run.RunsPerCycle; r++ {
		best := -1
		for d := 0; d < p.Run.ItemsPerRun; d++ {
			i, err := Pick(weights, rng)
			if err != nil {
				return err
			}
			if i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best < 0 {
			continue
		}
		if marker >= 0 && best >= marker {
			lost := false
			for k := 0; k < p.Run.OffcycleCapacity(); k++ {
				hit, err := Draw(relic.OffcyclePreempt, rng)
				if err != nil {
					return err
				}
				lost = lost || hit
			}
			if lost {
				continue
			}
		}
		counts[best]++
	}
	return nil
}

// RunMonteCarlo repeats trials cycles and returns, per reward in p.Rewards
// order, the distribution of how often it was kept in one cycle. The means
// converge to relic.ComputeYield.
func RunMonteCarlo(p Params, trials int, rng RandomSource) ([]RewardStats, error) {
	if err := p.Run.Validate(); err != nil {
		return nil, err
	}
	if trials <= 0 {
		return nil, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	weights := make([]float64, len(p.Rewards))
	marker := -1
	for i, rw := range p.Rewards {
		w, err := relic.BaseProbability(p.Run.Refinement, rw.Rarity)
		if err != nil {
			return nil, err
		}
		weights[i] = w
		if marker < 0 && p.Offcycle != "" && rw.Item.ID == p.Offcycle {
			marker = i
		}
	}

	// a reward is kept at most once per run
	hists := make([][]int, len(p.Rewards))
	for i := range hists {
		hists[i] = make([]int, p.Run.RunsPerCycle+1)
	}
	counts := make([]int, len(p.Rewards))
	for t := 0; t < trials; t++ {
		clear(counts)
		if err := simulateCycle(p, weights, marker, rng, counts); err != nil {
			return nil, err
		}
		for i, c := range counts {
			hists[i][c]++
		}
	}

	out := make([]RewardStats, len(p.Rewards))
	for i, rw := range p.Rewards {
		out[i] = RewardStats{Item: rw.Item, Rarity: rw.Rarity, Stats: histStats(hists[i])}
	}
	return out, nil
}
