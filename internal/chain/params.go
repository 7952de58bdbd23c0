package chain

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// randomAmounts draws n uniform values from [0, limit).
func randomAmounts(rng *rand.Rand, n int, limit float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64() * limit
	}
	return out
}

// supplyLimits draws one capacity per supply node from
// [total/S, total/S + flexibility*D), where total is the summed demand,
// S the supply node count and D the demand node count. The lower bound
// keeps total capacity at or above total demand for every draw, so the
// basic scenario is always feasible.
func supplyLimits(rng *rand.Rand, demand []float64, supplyCount int, flexibility float64) []float64 {
	lo := floats.Sum(demand) / float64(supplyCount)
	spread := flexibility * float64(len(demand))

	out := make([]float64, supplyCount)
	for i := range out {
		out[i] = lo + rng.Float64()*spread
	}
	return out
}
