package simulate

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// Draw reports a Bernoulli(p) outcome.
// p <= 0 never hits, p >= 1 always hits, otherwise rng.Float64() < p.
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// Pick draws one index from weights using cumulative mass. The mass left
// below 1 is an outcome of its own and returns -1.
func Pick(weights []float64, rng RandomSource) (int, error) {
	var total float64
	for _, w := range weights {
		if err := validateProb(w); err != nil {
			return -1, err
		}
		total += w
	}
	if total > 1+1e-9 {
		return -1, ErrInvalidProb
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	u := rng.Float64()
	var cum float64
	for i, w := range weights {
		cum += w
		if u < cum {
			return i, nil
		}
	}
	return -1, nil
}

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProb, p)
	}
	return nil
}
