package filter

import (
	"errors"
	"fmt"

	"worldstats/internal/dataset"
)

// ErrValidation marks parameter errors so the HTTP layer can answer 400
// instead of 500. Check with errors.Is.
var ErrValidation = errors.New("invalid filter parameters")

// ActiveHoursThreshold is the minimum playtime for the "active players only"
// flag to keep a record.
const ActiveHoursThreshold = 2.0

// Params is the full filter selection. Biomes and Resources act as sets:
// a mining record must match both to survive.
type Params struct {
	Mode       dataset.Mode       `json:"mode"`
	DayLo      int                `json:"day_lo"`
	DayHi      int                `json:"day_hi"`
	Biomes     []dataset.Biome    `json:"biomes"`
	Resources  []dataset.Resource `json:"resources"`
	ActiveOnly bool               `json:"active_only"`
	HonestOnly bool               `json:"honest_only"`
}

// DefaultParams selects everything: Survival mode, the whole day range,
// all biomes and resources, no flags.
func DefaultParams(maxDays int) Params {
	return Params{
		Mode:      dataset.ModeSurvival,
		DayLo:     1,
		DayHi:     maxDays,
		Biomes:    append([]dataset.Biome(nil), dataset.Biomes...),
		Resources: append([]dataset.Resource(nil), dataset.Resources...),
	}
}

func (p Params) Validate(maxDays int) error {
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrValidation, p.Mode)
	}
	if p.DayLo > p.DayHi {
		return fmt.Errorf("%w: day_lo %d > day_hi %d", ErrValidation, p.DayLo, p.DayHi)
	}
	if p.DayLo < 1 || p.DayHi > maxDays {
		return fmt.Errorf("%w: day range %d..%d outside 1..%d", ErrValidation, p.DayLo, p.DayHi, maxDays)
	}
	for _, b := range p.Biomes {
		if !b.Valid() {
			return fmt.Errorf("%w: unknown biome %q", ErrValidation, b)
		}
	}
	for _, r := range p.Resources {
		if !r.Valid() {
			return fmt.Errorf("%w: unknown resource %q", ErrValidation, r)
		}
	}
	return nil
}

// Filtered holds the four derived tables for one parameter set. Slices are
// fresh copies of matching records; the raw tables are never touched.
type Filtered struct {
	Activity []dataset.ActivityRecord
	Mining   []dataset.MiningRecord
	Economy  []dataset.EconomyRecord
	Deaths   []dataset.DeathRecord
}

// Apply validates params and produces the filtered tables. Each filter is a
// single order-preserving pass; an empty result is a normal outcome.
func Apply(t *dataset.Tables, p Params) (*Filtered, error) {
	if err := p.Validate(t.MaxDays); err != nil {
		return nil, err
	}

	f := &Filtered{}

	for _, r := range t.Activity {
		if r.Day < p.DayLo || r.Day > p.DayHi || r.Mode != p.Mode {
			continue
		}
		if p.ActiveOnly && r.HoursPlayed <= ActiveHoursThreshold {
			continue
		}
		f.Activity = append(f.Activity, r)
	}

	biomes := make(map[dataset.Biome]bool, len(p.Biomes))
	for _, b := range p.Biomes {
		biomes[b] = true
	}
	resources := make(map[dataset.Resource]bool, len(p.Resources))
	for _, r := range p.Resources {
		resources[r] = true
	}
	for _, r := range t.Mining {
		if r.Day < p.DayLo || r.Day > p.DayHi || r.Mode != p.Mode {
			continue
		}
		if !biomes[r.Biome] || !resources[r.Resource] {
			continue
		}
		f.Mining = append(f.Mining, r)
	}

	for _, r := range t.Economy {
		if r.Day < p.DayLo || r.Day > p.DayHi || r.Mode != p.Mode {
			continue
		}
		if p.HonestOnly && r.Cheater {
			continue
		}
		f.Economy = append(f.Economy, r)
	}

	for _, r := range t.Deaths {
		if r.Day >= p.DayLo && r.Day <= p.DayHi && r.Mode == p.Mode {
			f.Deaths = append(f.Deaths, r)
		}
	}

	return f, nil
}
