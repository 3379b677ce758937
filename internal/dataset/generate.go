package dataset

import (
	"fmt"
	"math/rand"
)

const (
	// MiningEventCount and DeathEventCount are fixed regardless of world size.
	MiningEventCount = 12000
	DeathEventCount  = 4000

	// EconomyPerPlayer scales the economy table with the player count.
	EconomyPerPlayer = 8

	MinYLevel = -64
	MaxYLevel = 127
)

var (
	modeWeights     = []float64{0.55, 0.25, 0.20}
	resourceWeights = []float64{0.08, 0.32, 0.18, 0.22, 0.20}
)

const cheaterRate = 0.12

// Generate builds the four raw tables from a seed. The same seed and size
// parameters always produce identical tables: a single rng drives every draw
// and the tables are filled in a fixed order.
func Generate(seed int64, nPlayers, maxDays int) (*Tables, error) {
	if nPlayers <= 0 {
		return nil, fmt.Errorf("n_players must be positive, got %d", nPlayers)
	}
	if maxDays <= 0 {
		return nil, fmt.Errorf("max_days must be positive, got %d", maxDays)
	}

	rng := rand.New(rand.NewSource(seed))

	players := make([]string, nPlayers)
	for i := range players {
		players[i] = fmt.Sprintf("Player_%d", i+1)
	}

	t := &Tables{Players: players, MaxDays: maxDays}

	t.Activity = make([]ActivityRecord, nPlayers*maxDays)
	for i := range t.Activity {
		t.Activity[i] = ActivityRecord{
			Day:         rng.Intn(maxDays) + 1,
			Player:      players[rng.Intn(nPlayers)],
			HoursPlayed: gammaSample(rng, 2.2, 1.8),
			Style:       Styles[rng.Intn(len(Styles))],
			Mode:        pickWeighted(rng, Modes, modeWeights),
		}
	}

	t.Mining = make([]MiningRecord, MiningEventCount)
	for i := range t.Mining {
		t.Mining[i] = MiningRecord{
			Day:      rng.Intn(maxDays) + 1,
			Player:   players[rng.Intn(nPlayers)],
			Resource: pickWeighted(rng, Resources, resourceWeights),
			YLevel:   rng.Intn(MaxYLevel-MinYLevel+1) + MinYLevel,
			Biome:    Biomes[rng.Intn(len(Biomes))],
			Mode:     pickWeighted(rng, Modes, modeWeights),
		}
	}

	t.Economy = make([]EconomyRecord, nPlayers*EconomyPerPlayer)
	for i := range t.Economy {
		t.Economy[i] = EconomyRecord{
			Day:     rng.Intn(maxDays) + 1,
			Player:  players[rng.Intn(nPlayers)],
			Balance: logNormalSample(rng, 3.2, 0.9),
			Mode:    Modes[rng.Intn(len(Modes))],
			Cheater: rng.Float64() < cheaterRate,
		}
	}

	t.Deaths = make([]DeathRecord, DeathEventCount)
	for i := range t.Deaths {
		t.Deaths[i] = DeathRecord{
			Day:    rng.Intn(maxDays) + 1,
			Player: players[rng.Intn(nPlayers)],
			Cause:  Causes[rng.Intn(len(Causes))],
			Mode:   Modes[rng.Intn(len(Modes))],
		}
	}

	return t, nil
}

// pickWeighted draws one value from vals with the given probabilities.
// Weights must sum to 1; the final value absorbs any rounding remainder.
func pickWeighted[T any](rng *rand.Rand, vals []T, weights []float64) T {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return vals[i]
		}
	}
	return vals[len(vals)-1]
}
