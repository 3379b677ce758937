package dataset

import (
	"math"
	"math/rand"
)

// gammaSample draws from a gamma distribution via Marsaglia-Tsang squeeze
// rejection. Only valid for shape >= 1, which is all this package needs
// (playtime uses shape 2.2).
func gammaSample(rng *rand.Rand, shape, scale float64) float64 {
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// logNormalSample draws exp(N(mu, sigma)).
func logNormalSample(rng *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(mu + sigma*rng.NormFloat64())
}
